package echoapi

import (
	"net/http"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-extractor/core"
	"github.com/trezcool/masomo-extractor/core/extraction"
	metricsvc "github.com/trezcool/masomo-extractor/services/metrics"
)

type extractionApi struct {
	extractor  Extractor
	metrics    *metricsvc.Metrics
	validate   *validator.Validate
	translator ut.Translator
}

func registerExtractionAPI(app *echo.Echo, auth echo.MiddlewareFunc, deps ServerDeps) {
	api := extractionApi{
		extractor:  deps.Extractor,
		metrics:    deps.Metrics,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	var mw []echo.MiddlewareFunc
	if auth != nil {
		mw = append(mw, auth)
	}
	app.POST("/extract", api.extract, mw...)
}

func (api extractionApi) extract(ctx echo.Context) error {
	start := time.Now()
	res, err := api.run(ctx)
	api.metrics.ObserveExtraction(outcomeOf(err), res.PageCount, len(res.NeedsOCR), time.Since(start))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api extractionApi) run(ctx echo.Context) (extraction.Result, error) {
	var data extraction.Request
	if err := ctx.Bind(&data); err != nil {
		// a body that is not JSON carries no url
		if !errors.Is(err, echo.ErrUnsupportedMediaType) {
			return extraction.Result{}, err
		}
		data = extraction.Request{}
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return extraction.Result{}, err
	}

	res, err := api.extractor.Extract(ctx.Request().Context(), data.URL)
	if err != nil {
		return extraction.Result{}, errors.Wrap(err, "extracting text")
	}
	return res, nil
}

func outcomeOf(err error) string {
	if err == nil {
		return metricsvc.OutcomeOK
	}
	switch errors.Cause(err).(type) {
	case *core.ValidationError, *echo.HTTPError:
		return metricsvc.OutcomeValidation
	case *core.FetchError:
		return metricsvc.OutcomeFetch
	case *core.ParseError:
		return metricsvc.OutcomeParse
	default:
		return metricsvc.OutcomeInternal
	}
}
