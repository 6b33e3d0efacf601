package httpapi

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// pathID parses a uuid path parameter, answering 400 when it is malformed
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		abortBadRequest(c, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON decodes the request body, answering 400 when it is malformed
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortBadRequest(c, "Invalid request format")
		return false
	}
	return true
}

func queryInt(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return v
}

// queryFloat parses a required float query parameter
func queryFloat(c *gin.Context, name string) (float64, bool) {
	raw, ok := c.GetQuery(name)
	if !ok {
		abortBadRequest(c, name+" is required")
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		abortBadRequest(c, "Invalid "+name)
		return 0, false
	}
	return v, true
}

func queryBool(c *gin.Context, name string) bool {
	v, _ := strconv.ParseBool(c.Query(name))
	return v
}

// nearbyQuery reads lat, lng and the optional radius
func nearbyQuery(c *gin.Context) (lat, lng, radius float64, ok bool) {
	if lat, ok = queryFloat(c, "lat"); !ok {
		return
	}
	if lng, ok = queryFloat(c, "lng"); !ok {
		return
	}
	if raw, present := c.GetQuery("radius"); present {
		var err error
		if radius, err = strconv.ParseFloat(raw, 64); err != nil {
			abortBadRequest(c, "Invalid radius")
			return 0, 0, 0, false
		}
	}
	return lat, lng, radius, true
}
