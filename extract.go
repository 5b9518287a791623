package pdfreflow

import (
	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/enums"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/pkg/errors"
)

// extractPageContent extracts the positioned text runs and link annotations
// for a single page. Coordinates are converted from PDF space (origin
// bottom-left) to top-left origin so that runs and annotations share one
// coordinate system.
func extractPageContent(instance pdfium.Pdfium, docRef references.FPDF_DOCUMENT, pageIndex int) (PageContent, error) {
	content := PageContent{Index: pageIndex}

	pageResp, err := instance.FPDF_LoadPage(&requests.FPDF_LoadPage{
		Document: docRef,
		Index:    pageIndex,
	})
	if err != nil {
		return content, errors.Wrap(err, "failed to load page")
	}
	defer instance.FPDF_ClosePage(&requests.FPDF_ClosePage{
		Page: pageResp.Page,
	})

	heightResp, err := instance.FPDF_GetPageHeightF(&requests.FPDF_GetPageHeightF{
		Page: requests.Page{
			ByReference: &pageResp.Page,
		},
	})
	if err != nil {
		return content, errors.Wrap(err, "failed to get page height")
	}
	pageHeight := float64(heightResp.PageHeight)

	runs, err := extractTextRuns(instance, pageResp.Page, pageHeight)
	if err != nil {
		return content, errors.Wrap(err, "failed to extract text runs")
	}
	content.Runs = runs

	links, err := extractLinkAnnotations(instance, docRef, pageResp.Page, pageHeight)
	if err != nil {
		return content, errors.Wrap(err, "failed to extract link annotations")
	}
	content.Links = links

	return content, nil
}

// extractTextRuns extracts the page's text as positioned fragments in
// extraction order, one run per text rectangle reported by pdfium.
func extractTextRuns(instance pdfium.Pdfium, page references.FPDF_PAGE, pageHeight float64) ([]TextRun, error) {
	textPage, err := instance.FPDFText_LoadPage(&requests.FPDFText_LoadPage{
		Page: requests.Page{
			ByReference: &page,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load text page")
	}
	defer instance.FPDFText_ClosePage(&requests.FPDFText_ClosePage{
		TextPage: textPage.TextPage,
	})

	countResp, err := instance.FPDFText_CountRects(&requests.FPDFText_CountRects{
		TextPage:   textPage.TextPage,
		StartIndex: 0,
		Count:      -1,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to count text rects")
	}

	runs := make([]TextRun, 0, countResp.Count)
	for i := 0; i < countResp.Count; i++ {
		rect, err := instance.FPDFText_GetRect(&requests.FPDFText_GetRect{
			TextPage: textPage.TextPage,
			Index:    i,
		})
		if err != nil {
			continue
		}

		bounded, err := instance.FPDFText_GetBoundedText(&requests.FPDFText_GetBoundedText{
			TextPage: textPage.TextPage,
			Left:     rect.Left,
			Top:      rect.Top,
			Right:    rect.Right,
			Bottom:   rect.Bottom,
		})
		if err != nil || bounded.Text == "" {
			continue
		}

		runs = append(runs, TextRun{
			Text: bounded.Text,
			Box: Rect{
				X0: rect.Left,
				Y0: pageHeight - rect.Top,
				X1: rect.Right,
				Y1: pageHeight - rect.Bottom,
			},
		})
	}

	return runs, nil
}

// extractLinkAnnotations collects the page's link annotations that carry a
// URI action. Annotations without a URI target (internal goto actions,
// widgets) are skipped: they never map to inline links.
func extractLinkAnnotations(instance pdfium.Pdfium, docRef references.FPDF_DOCUMENT, page references.FPDF_PAGE, pageHeight float64) ([]LinkAnnotation, error) {
	countResp, err := instance.FPDFPage_GetAnnotCount(&requests.FPDFPage_GetAnnotCount{
		Page: requests.Page{
			ByReference: &page,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to count annotations")
	}

	var links []LinkAnnotation
	for i := 0; i < countResp.Count; i++ {
		annotResp, err := instance.FPDFPage_GetAnnot(&requests.FPDFPage_GetAnnot{
			Page: requests.Page{
				ByReference: &page,
			},
			Index: i,
		})
		if err != nil {
			continue
		}

		link, ok := linkFromAnnotation(instance, docRef, annotResp.Annotation, pageHeight)

		instance.FPDFPage_CloseAnnot(&requests.FPDFPage_CloseAnnot{
			Annotation: annotResp.Annotation,
		})

		if ok {
			links = append(links, link)
		}
	}

	return links, nil
}

// linkFromAnnotation resolves a single annotation into a LinkAnnotation,
// reporting false when the annotation is not a link with a URI action.
func linkFromAnnotation(instance pdfium.Pdfium, docRef references.FPDF_DOCUMENT, annotation references.FPDF_ANNOTATION, pageHeight float64) (LinkAnnotation, bool) {
	subtype, err := instance.FPDFAnnot_GetSubtype(&requests.FPDFAnnot_GetSubtype{
		Annotation: annotation,
	})
	if err != nil || subtype.Subtype != enums.FPDF_ANNOT_SUBTYPE_LINK {
		return LinkAnnotation{}, false
	}

	rectResp, err := instance.FPDFAnnot_GetRect(&requests.FPDFAnnot_GetRect{
		Annotation: annotation,
	})
	if err != nil {
		return LinkAnnotation{}, false
	}

	linkResp, err := instance.FPDFAnnot_GetLink(&requests.FPDFAnnot_GetLink{
		Annotation: annotation,
	})
	if err != nil {
		return LinkAnnotation{}, false
	}

	actionResp, err := instance.FPDFLink_GetAction(&requests.FPDFLink_GetAction{
		Link: linkResp.Link,
	})
	if err != nil || actionResp.Action == nil {
		return LinkAnnotation{}, false
	}

	uriResp, err := instance.FPDFAction_GetURIPath(&requests.FPDFAction_GetURIPath{
		Document: docRef,
		Action:   *actionResp.Action,
	})
	if err != nil || uriResp.URIPath == nil || *uriResp.URIPath == "" {
		return LinkAnnotation{}, false
	}

	return LinkAnnotation{
		Box: Rect{
			X0: float64(rectResp.Rect.Left),
			Y0: pageHeight - float64(rectResp.Rect.Top),
			X1: float64(rectResp.Rect.Right),
			Y1: pageHeight - float64(rectResp.Rect.Bottom),
		},
		URL: *uriResp.URIPath,
	}, true
}
