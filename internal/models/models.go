package models

import (
	"bytes"
	"encoding/json"
)

type ProcessingStatus string

const (
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusError      ProcessingStatus = "error"
)

type SectionStatus string

const (
	SectionPending   SectionStatus = "pending"
	SectionCompleted SectionStatus = "completed"
	SectionError     SectionStatus = "error"
)

type SectionType string

const (
	SectionMethodology SectionType = "methodology"
	SectionResults     SectionType = "results"
	SectionDiscussion  SectionType = "discussion"
	SectionOther       SectionType = "other"
)

type VizType string

const (
	VizNone      VizType = "NONE"
	VizFlowchart VizType = "FLOWCHART"
	VizBarChart  VizType = "BAR_CHART"
)

type VisualizationStyle struct {
	Colors []string `json:"colors,omitempty"`
	Layout string   `json:"layout,omitempty"`
}

// Visualization describes how a summary could be drawn. It is an
// explanation of a chart, not the chart itself; the rendered image
// lives on Section.Visualization as base64.
type Visualization struct {
	VizType     VizType            `json:"viz_type"`
	Explanation string             `json:"explanation,omitempty"`
	Data        map[string]any     `json:"data,omitempty"`
	Style       VisualizationStyle `json:"style"`
}

// TLDR is the per-section summary payload.
type TLDR struct {
	Text          string        `json:"tldr"`
	Visualization Visualization `json:"visualization"`
}

// UnmarshalJSON accepts both shapes the service has been observed to send:
// a bare summary string and the structured {tldr, visualization} object.
func (t *TLDR) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = TLDR{Text: s}
		return nil
	}
	type alias TLDR
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*t = TLDR(a)
	return nil
}

// Section is one logical unit of the paper. Classification is assigned by
// the service and never changed client-side; only Status, TLDR and
// Visualization mutate as polling proceeds.
type Section struct {
	Title         string        `json:"title"`
	SectionType   SectionType   `json:"section_type"`
	TLDR          *TLDR         `json:"tldr"`
	Visualization string        `json:"visualization,omitempty"`
	Status        SectionStatus `json:"status"`
}

// DocumentState is the view model for one uploaded document. It is replaced
// wholesale on every update, never mutated in place by consumers.
type DocumentState struct {
	DocumentID       string           `json:"document_id"`
	Filename         string           `json:"filename"`
	ProcessingStatus ProcessingStatus `json:"processing_status"`
	TotalSections    int              `json:"total_sections"`
	Sections         []Section        `json:"sections"`
	Error            string           `json:"error,omitempty"`
}

// AllSectionsCompleted reports whether every section finished. The document
// is only considered done when this holds, regardless of the service's
// top-level processing_status field. An empty section list completes
// vacuously, so a zero-section document settles on its first poll instead
// of polling forever.
func (d DocumentState) AllSectionsCompleted() bool {
	for _, s := range d.Sections {
		if s.Status != SectionCompleted {
			return false
		}
	}
	return true
}

// Terminal reports whether the document reached a sink state.
func (d DocumentState) Terminal() bool {
	return d.ProcessingStatus == StatusCompleted || d.ProcessingStatus == StatusError
}

// Clone returns a deep copy so the cache and view-model copies never share
// section slices or summary payloads.
func (d DocumentState) Clone() DocumentState {
	out := d
	if d.Sections != nil {
		out.Sections = make([]Section, len(d.Sections))
		for i, s := range d.Sections {
			cs := s
			if s.TLDR != nil {
				t := *s.TLDR
				if s.TLDR.Visualization.Data != nil {
					t.Visualization.Data = make(map[string]any, len(s.TLDR.Visualization.Data))
					for k, v := range s.TLDR.Visualization.Data {
						t.Visualization.Data[k] = v
					}
				}
				if s.TLDR.Visualization.Style.Colors != nil {
					t.Visualization.Style.Colors = append([]string(nil), s.TLDR.Visualization.Style.Colors...)
				}
				cs.TLDR = &t
			}
			out.Sections[i] = cs
		}
	}
	return out
}

// CompletedSections counts finished sections, for progress display.
func (d DocumentState) CompletedSections() int {
	n := 0
	for _, s := range d.Sections {
		if s.Status == SectionCompleted {
			n++
		}
	}
	return n
}
