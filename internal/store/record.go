package store

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rvandam/office-gate/api"
)

// Record files are markdown documents a human can resolve with any text
// editor: a YAML front matter header carrying the structured fields,
// followed by a readable body with the action details in a fenced YAML
// block. The only edit a human makes is changing `status` (and optionally
// adding `rejection_reason`).

const (
	frontMatterDelim = "---"
	detailsFence     = "```yaml"
	fenceClose       = "```"
)

// header is the structured, human-editable part of a record file.
type header struct {
	RequestID       string             `yaml:"request_id"`
	ActionType      string             `yaml:"action_type"`
	Status          api.Status         `yaml:"status"`
	Risk            api.RiskAssessment `yaml:"risk"`
	CreatedAt       time.Time          `yaml:"created_at"`
	ResolvedAt      *time.Time         `yaml:"resolved_at,omitempty"`
	RejectionReason string             `yaml:"rejection_reason,omitempty"`
}

// Render serializes an approval request into its record file form.
func Render(req *api.ApprovalRequest) ([]byte, error) {
	hdr, err := yaml.Marshal(header{
		RequestID:       req.RequestID,
		ActionType:      req.ActionType,
		Status:          req.Status,
		Risk:            req.Risk,
		CreatedAt:       req.CreatedAt,
		ResolvedAt:      req.ResolvedAt,
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling record header: %w", err)
	}

	details := req.Details
	if details == nil {
		details = map[string]any{}
	}
	body, err := yaml.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("marshaling action details: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(frontMatterDelim + "\n")
	buf.Write(hdr)
	buf.WriteString(frontMatterDelim + "\n\n")
	fmt.Fprintf(&buf, "# Approval request %s\n\n", req.RequestID)
	fmt.Fprintf(&buf, "Action `%s`, sensitivity **%s** (score %g).\n\n",
		req.ActionType, req.Risk.Sensitivity, req.Risk.Score)
	buf.WriteString("To approve, change `status: pending` to `status: approved` in the header\n")
	buf.WriteString("above and save. To reject, set `status: rejected` and optionally add a\n")
	buf.WriteString("`rejection_reason` line.\n\n")
	buf.WriteString("## Action details\n\n")
	buf.WriteString(detailsFence + "\n")
	buf.Write(body)
	buf.WriteString(fenceClose + "\n")

	return buf.Bytes(), nil
}

// Parse reads a record file back into an approval request. It tolerates
// arbitrary prose edits outside the header and the details fence.
func Parse(data []byte) (*api.ApprovalRequest, error) {
	text := string(data)

	rest, ok := strings.CutPrefix(text, frontMatterDelim+"\n")
	if !ok {
		return nil, fmt.Errorf("record missing front matter header")
	}
	headerText, body, ok := strings.Cut(rest, "\n"+frontMatterDelim+"\n")
	if !ok {
		return nil, fmt.Errorf("record front matter not terminated")
	}

	var hdr header
	if err := yaml.Unmarshal([]byte(headerText+"\n"), &hdr); err != nil {
		return nil, fmt.Errorf("parsing record header: %w", err)
	}
	if hdr.RequestID == "" {
		return nil, fmt.Errorf("record header missing request_id")
	}

	details, err := parseDetails(body)
	if err != nil {
		return nil, err
	}

	return &api.ApprovalRequest{
		RequestID:       hdr.RequestID,
		ActionType:      hdr.ActionType,
		Status:          hdr.Status,
		Risk:            hdr.Risk,
		CreatedAt:       hdr.CreatedAt,
		ResolvedAt:      hdr.ResolvedAt,
		RejectionReason: hdr.RejectionReason,
		Details:         details,
	}, nil
}

func parseDetails(body string) (map[string]any, error) {
	_, fenced, ok := strings.Cut(body, detailsFence+"\n")
	if !ok {
		return nil, fmt.Errorf("record missing action details block")
	}
	inner, _, ok := strings.Cut(fenced, "\n"+fenceClose)
	if !ok {
		return nil, fmt.Errorf("action details block not terminated")
	}

	details := map[string]any{}
	if err := yaml.Unmarshal([]byte(inner+"\n"), &details); err != nil {
		return nil, fmt.Errorf("parsing action details: %w", err)
	}
	return details, nil
}
