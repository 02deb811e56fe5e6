package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xaenox/flatprice-bot/internal/catalog"
	"github.com/xaenox/flatprice-bot/internal/models"
	"github.com/xaenox/flatprice-bot/internal/validate"
)

// PredictRequest is the body of POST /api/v1/predict. Every field is
// required; codes are the ones offered by the bot's keyboards.
type PredictRequest struct {
	District      *int     `json:"district"`
	Area          *float64 `json:"area"`
	ApartmentType *int     `json:"apartment_type"`
	CurrentFloor  *int     `json:"current_floor"`
	TotalFloors   *int     `json:"total_floors"`
}

type PredictResponse struct {
	PredictedPrice int64    `json:"predicted_price"`
	Deviation      int64    `json:"deviation"`
	PriceText      string   `json:"price_text"`
	ModelVersion   string   `json:"model_version"`
	MAPE           *float64 `json:"mape,omitempty"`
}

func (r PredictRequest) apartment() (models.Apartment, error) {
	if r.District == nil || r.Area == nil || r.ApartmentType == nil ||
		r.CurrentFloor == nil || r.TotalFloors == nil {
		return models.Apartment{}, errors.New("district, area, apartment_type, current_floor and total_floors are required")
	}
	return models.Apartment{
		DistrictCode:      *r.District,
		ApartmentTypeCode: *r.ApartmentType,
		Area:              *r.Area,
		CurrentFloor:      *r.CurrentFloor,
		TotalFloors:       *r.TotalFloors,
	}, nil
}

func (s *Server) index(c *gin.Context) {
	c.String(http.StatusOK, "Bot is running")
}

func (s *Server) health(c *gin.Context) {
	if s.estimator.Degraded() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":        "degraded",
			"model_version": s.estimator.Version(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"model_version": s.estimator.Version(),
	})
}

func (s *Server) predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	apt, err := req.apartment()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validate.Apartment(apt, s.districts, s.types); err != nil {
		var verr *validate.Error
		if errors.As(err, &verr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": verr.Reason, "field": verr.Field})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	quote, err := s.estimator.Estimate(apt)
	if err != nil {
		s.logger.Error("Prediction failed",
			zap.Error(err),
			zap.Int("district_code", apt.DistrictCode))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "prediction failed"})
		return
	}

	resp := PredictResponse{
		PredictedPrice: quote.Price,
		Deviation:      quote.Deviation,
		PriceText:      quote.PriceText(),
		ModelVersion:   s.estimator.Version(),
	}
	if mape, ok := s.estimator.MAPE(); ok {
		resp.MAPE = &mape
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) listDistricts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"districts":       entries(s.districts),
		"apartment_types": entries(s.types),
	})
}

type entry struct {
	Code  int    `json:"code"`
	Label string `json:"label"`
}

func entries(d *catalog.Dictionary) []entry {
	out := make([]entry, 0, d.Len())
	for _, e := range d.Entries() {
		out = append(out, entry{Code: e.Code, Label: e.Label})
	}
	return out
}
