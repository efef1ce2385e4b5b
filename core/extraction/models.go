package extraction

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo-extractor/core"
)

type (
	// Request identifies a remotely hosted PDF.
	Request struct {
		URL string `json:"url" validate:"required"`
	}

	// Result holds the text of every page, in document order.
	// NeedsOCR lists the zero-based indices of pages whose text looks too short to be real.
	Result struct {
		Pages     []string `json:"pages"`
		PageCount int      `json:"pageCount"`
		NeedsOCR  []int    `json:"needsOcr"`
	}
)

func (r *Request) Validate(validate *validator.Validate, translator ut.Translator) error {
	r.URL = core.CleanString(r.URL)
	return core.ValidateStruct(validate, translator, r)
}
