package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	profiledomain "github.com/gufolabs/gestiune/internal/profile/domain"
)

type upsertProfileRequest struct {
	CompanyName string `json:"company_name"`
	Series      string `json:"invoice_series"`
	NumberStart int64  `json:"invoice_number_start"`
}

func (s *Server) GetProfile(c *gin.Context) {
	resp, err := s.profileSvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpsertProfile(c *gin.Context) {
	var req upsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.profileSvc.Upsert(c.Request.Context(), profiledomain.UpsertProfileRequest{
		CompanyName: strings.TrimSpace(req.CompanyName),
		Series:      strings.TrimSpace(req.Series),
		NumberStart: req.NumberStart,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isProfileValidationError(err error) bool {
	switch err {
	case profiledomain.ErrMissingTenant,
		profiledomain.ErrInvalidSeries,
		profiledomain.ErrInvalidStart:
		return true
	default:
		return false
	}
}
