package extraction

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-extractor/core"
)

// Service extracts the per-page text of remote PDFs.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	fetcher   Fetcher
	opener    Opener
	threshold int
}

// NewService returns a Service. A threshold <= 0 falls back to DefaultOCRThreshold.
func NewService(fetcher Fetcher, opener Opener, threshold int) *Service {
	if threshold <= 0 {
		threshold = DefaultOCRThreshold
	}
	return &Service{
		fetcher:   fetcher,
		opener:    opener,
		threshold: threshold,
	}
}

func (svc *Service) OCRThreshold() int { return svc.threshold }

// Extract downloads the PDF at url and returns the text of every page.
// Either every page is extracted or an error is returned; there are no partial results.
func (svc *Service) Extract(ctx context.Context, url string) (res Result, err error) {
	url = core.CleanString(url)
	if url == "" {
		return Result{}, core.NewValidationError(core.ErrURLRequired)
	}

	data, err := svc.fetcher.Fetch(ctx, url)
	if err != nil {
		return Result{}, errors.Wrap(err, "fetching document")
	}
	return svc.ExtractBytes(data)
}

// ExtractBytes runs the extraction on an already downloaded document.
func (svc *Service) ExtractBytes(data []byte) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{}
			err = core.NewInternalError(errors.Errorf("extracting text: %v", r))
		}
	}()

	doc, err := svc.opener.Open(data)
	if err != nil {
		if !core.IsParseError(err) {
			err = core.NewParseError(err)
		}
		return Result{}, errors.Wrap(err, "opening document")
	}

	count := doc.PageCount()
	if count < 0 {
		return Result{}, errors.Wrap(core.NewParseError(fmt.Errorf("invalid page count %d", count)), "counting pages")
	}

	// pages are read strictly in order: parsers keep per-page state
	pages := make([]string, 0, count)
	for i := 0; i < count; i++ {
		text, err := doc.PageText(i)
		if err != nil {
			if !core.IsParseError(err) {
				err = core.NewParseError(err)
			}
			return Result{}, errors.Wrapf(err, "reading page %d", i+1)
		}
		pages = append(pages, text)
	}

	return Result{
		Pages:     pages,
		PageCount: len(pages),
		NeedsOCR:  NeedsOCR(pages, svc.threshold),
	}, nil
}
