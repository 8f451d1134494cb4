package preflight

import (
	"fmt"
	"strconv"

	"github.com/local/printssistant/internal/printspec"
)

type IssueType string

const (
	IssueWarning IssueType = "warning"
	IssueError   IssueType = "error"
)

type Issue struct {
	ID      string    `json:"id"`
	Type    IssueType `json:"type"`
	Message string    `json:"message"`
}

// Element is a design element box in editor pixels.
type Element struct {
	Ref    string  `json:"ref"`
	Type   string  `json:"type"`
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

const ElementText = "text"

// CheckMargins flags text elements whose box crosses the safe margin.
// Other element types may run to the edge on purpose and are skipped.
func CheckMargins(page printspec.PageDimensions, elements []Element, safeMarginInches float64) []Issue {
	if !page.Valid() {
		return []Issue{{ID: "sys-error", Type: IssueError, Message: "Could not read page dimensions"}}
	}

	m := printspec.InchesToPixels(safeMarginInches)
	msg := fmt.Sprintf("Text element is too close to the edge (Safe zone: %s\")",
		strconv.FormatFloat(safeMarginInches, 'f', -1, 64))

	var issues []Issue
	for i, el := range elements {
		if el.Type != ElementText {
			continue
		}
		if el.Left < m || el.Top < m ||
			el.Left+el.Width > page.WidthPx-m ||
			el.Top+el.Height > page.HeightPx-m {
			id := el.Ref
			if id == "" {
				id = fmt.Sprintf("element-%d", i)
			}
			issues = append(issues, Issue{ID: id, Type: IssueWarning, Message: msg})
		}
	}
	return issues
}
