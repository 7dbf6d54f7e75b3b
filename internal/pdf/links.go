package pdf

import (
	"bytes"
	"log/slog"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ExtractLinks returns every URI found in the document's link annotations,
// in page order and then by object number within a page. Any failure to
// open or parse the document is logged and yields an empty result.
func ExtractLinks(data []byte) (links []string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("pdf.links.panic", "recovered", r)
			links = nil
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pageAnnots, err := api.Annotations(bytes.NewReader(data), nil, conf)
	if err != nil {
		slog.Error("pdf.links.failed", "error", err)
		return nil
	}

	pages := make([]int, 0, len(pageAnnots))
	for p := range pageAnnots {
		pages = append(pages, p)
	}
	sort.Ints(pages)

	for _, p := range pages {
		annots, ok := pageAnnots[p][model.AnnLink]
		if !ok {
			continue
		}
		objNrs := make([]int, 0, len(annots.Map))
		for nr := range annots.Map {
			objNrs = append(objNrs, nr)
		}
		sort.Ints(objNrs)
		for _, nr := range objNrs {
			link, ok := annots.Map[nr].(model.LinkAnnotation)
			if !ok || link.URI == "" {
				continue
			}
			links = append(links, link.URI)
		}
	}
	return links
}
