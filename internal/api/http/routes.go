package httpapi

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/temperature-prediction/internal/prediction"
	"github.com/i474232898/temperature-prediction/internal/store"
	"github.com/i474232898/temperature-prediction/internal/weather"
)

var validate = validator.New()

// Deps holds what the handlers need. Everything in it is built once at
// startup and shared read-only between requests.
type Deps struct {
	Service        *prediction.Service
	History        weather.Store
	HistoryDisplay int
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	v1 := app.Group("/api/v1")

	v1.Post("/predict", func(c *fiber.Ctx) error {
		fv, err := bindFeatures(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		temp, err := deps.Service.Predict(c.UserContext(), fv)
		if err != nil {
			return toHTTPError(err)
		}

		return c.JSON(fiber.Map{
			"temperature": temp,
			"formatted":   fmt.Sprintf("%.2f", temp),
		})
	})

	v1.Post("/predict/file", func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil || fh.Filename == "" {
			return fiber.NewError(fiber.StatusBadRequest, "no file selected")
		}

		f, err := fh.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "failed to read uploaded file")
		}
		defer f.Close()

		result, err := deps.Service.PredictFile(c.UserContext(), fh.Filename, f)
		if err != nil {
			return toHTTPError(err)
		}

		return c.JSON(fiber.Map{
			"batch_id":    result.ID,
			"count":       len(result.Predictions),
			"predictions": result.Predictions,
		})
	})

	v1.Get("/history", func(c *fiber.Ctx) error {
		limit := deps.HistoryDisplay
		if s := c.Query("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "limit must be a non-negative integer")
			}
			limit = n
		}

		return c.JSON(fiber.Map{
			"observations": deps.History.Latest(limit),
		})
	})

	v1.Get("/history/range", func(c *fiber.Ctx) error {
		var req rangeQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		observations, err := deps.History.Range(req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no observations for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read observation history")
		}

		return c.JSON(fiber.Map{
			"from":         req.From,
			"to":           req.To,
			"observations": observations,
		})
	})
}

// toHTTPError maps pipeline error kinds onto status codes. The message is
// shown to the user as-is.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, prediction.ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, prediction.ErrUnsupportedFormat):
		return fiber.NewError(fiber.StatusUnsupportedMediaType,
			"invalid file format; upload a CSV or Excel (.xlsx) file")
	case errors.Is(err, prediction.ErrParse), errors.Is(err, prediction.ErrInference):
		return fiber.NewError(fiber.StatusUnprocessableEntity, "prediction failed: "+err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "prediction failed: "+err.Error())
	}
}

// predictRequest is the JSON body of a single prediction. Pointers make
// a missing field distinguishable from zero.
type predictRequest struct {
	Precipitation *float64 `json:"precipitation" validate:"required"`
	Humidity      *float64 `json:"humidity" validate:"required"`
	WindGust      *float64 `json:"wind_gust" validate:"required"`
	WindSpeed     *float64 `json:"wind_speed" validate:"required"`
	CloudCover    *float64 `json:"cloud_cover" validate:"required"`
	Pressure      *float64 `json:"pressure" validate:"required"`
}

func (r predictRequest) toFeatures() prediction.FeatureVector {
	return prediction.FeatureVector{
		Precipitation: *r.Precipitation,
		Humidity:      *r.Humidity,
		WindGust:      *r.WindGust,
		WindSpeed:     *r.WindSpeed,
		CloudCover:    *r.CloudCover,
		Pressure:      *r.Pressure,
	}
}

// bindFeatures accepts either a JSON body or HTML form fields.
func bindFeatures(c *fiber.Ctx) (prediction.FeatureVector, error) {
	if c.Is("json") {
		var req predictRequest
		if err := c.BodyParser(&req); err != nil {
			return prediction.FeatureVector{}, fmt.Errorf("invalid JSON body: %w", err)
		}
		if err := validate.Struct(req); err != nil {
			return prediction.FeatureVector{}, err
		}
		return req.toFeatures(), nil
	}

	values := make(map[string]string, prediction.NumFeatures)
	for _, f := range prediction.Features {
		values[f.String()] = c.FormValue(f.String())
	}
	return prediction.ParseFeatures(values)
}

// rangeQuery holds query parameters for the history range endpoint.
type rangeQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (q *rangeQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	q.From = from
	q.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
