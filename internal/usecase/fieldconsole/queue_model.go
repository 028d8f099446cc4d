package fieldconsole

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mrcfield/internal/bootstrap/logging"
	"mrcfield/internal/domain/costing"
	domain "mrcfield/internal/domain/inspection"
	"mrcfield/internal/ports"
	"mrcfield/internal/usecase/inspection"
)

const maxShownAreas = 6
const maxAuditLines = 8

// InspectionService is the slice of the inspection use case the console drives.
type InspectionService interface {
	List(ctx context.Context, input inspection.ListInput) ([]ports.InspectionSummary, error)
	Get(ctx context.Context, inspectionID string) (*domain.Inspection, error)
	Start(ctx context.Context, ref inspection.Ref) (*domain.Inspection, error)
	PreviewInspectionCost(ctx context.Context, inspectionID string) (costing.Breakdown, error)
	Complete(ctx context.Context, input inspection.CompleteInput) (inspection.CompleteResult, error)
	ExportReport(ctx context.Context, inspectionID string, w io.Writer) error
}

type QueueOptions struct {
	Operator        string
	StatusFilter    string
	ExportDir       string
	Limit           int
	RefreshInterval time.Duration
}

type queueModel struct {
	ctx             context.Context
	service         InspectionService
	operator        string
	statusFilter    string
	exportDir       string
	limit           int
	refreshInterval time.Duration

	items         []ports.InspectionSummary
	selectedIndex int
	detail        *domain.Inspection
	preview       *costing.Breakdown
	status        string
	auditLogs     []string
}

type inspectionsLoadedMsg struct {
	items []ports.InspectionSummary
	err   error
}

type inspectionDetailLoadedMsg struct {
	inspectionID string
	detail       *domain.Inspection
	err          error
}

type costPreviewMsg struct {
	inspectionID string
	breakdown    costing.Breakdown
	err          error
}

type tickMsg struct{}

type actionDoneMsg struct {
	action       string
	inspectionID string
	result       string
	err          error
}

func NewQueueModel(ctx context.Context, service InspectionService, options QueueOptions) tea.Model {
	operator := strings.TrimSpace(options.Operator)
	if operator == "" {
		operator = "office"
	}
	exportDir := strings.TrimSpace(options.ExportDir)
	if exportDir == "" {
		exportDir = "."
	}
	limit := options.Limit
	if limit <= 0 {
		limit = 50
	}
	interval := options.RefreshInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}

	return &queueModel{
		ctx:             ctx,
		service:         service,
		operator:        operator,
		statusFilter:    normalizeStatusFilter(options.StatusFilter),
		exportDir:       exportDir,
		limit:           limit,
		refreshInterval: interval,
		status:          "loading",
	}
}

func (m *queueModel) Init() tea.Cmd {
	return tea.Batch(m.loadInspectionsCmd(), m.tickCmd())
}

func (m *queueModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tickMsg:
		return m, tea.Batch(m.loadInspectionsCmd(), m.tickCmd())
	case inspectionsLoadedMsg:
		if msg.err != nil {
			m.status = "refresh failed: " + msg.err.Error()
			return m, nil
		}
		m.items = msg.items
		if len(m.items) == 0 {
			m.selectedIndex = 0
			m.detail = nil
			m.preview = nil
			m.status = "queue is empty"
			return m, nil
		}
		m.selectedIndex = clampIndex(m.selectedIndex, len(m.items))
		m.status = fmt.Sprintf("refreshed, %d inspections", len(m.items))
		return m, m.loadSelectedDetailCmd()
	case inspectionDetailLoadedMsg:
		if !m.isCurrentSelection(msg.inspectionID) {
			return m, nil
		}
		if msg.err != nil {
			m.detail = nil
			m.status = "detail failed: " + msg.err.Error()
			return m, nil
		}
		if m.detail == nil || m.detail.ID != msg.detail.ID {
			m.preview = nil
		}
		m.detail = msg.detail
		return m, nil
	case costPreviewMsg:
		if !m.isCurrentSelection(msg.inspectionID) {
			return m, nil
		}
		if msg.err != nil {
			m.preview = nil
			m.status = "preview failed: " + msg.err.Error()
			return m, nil
		}
		breakdown := msg.breakdown
		m.preview = &breakdown
		m.status = "preview " + string(breakdown.WorkType) + " " + costing.FormatAUD(breakdown.TotalCost)
		return m, nil
	case actionDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("%s failed: %v", msg.action, msg.err)
			m.appendAuditLog(msg.action, msg.inspectionID, "failed", msg.err)
		} else {
			m.status = fmt.Sprintf("%s done: %s", msg.action, msg.result)
			m.appendAuditLog(msg.action, msg.inspectionID, msg.result, nil)
		}
		return m, m.loadInspectionsCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "g":
			m.status = "refreshing"
			return m, m.loadInspectionsCmd()
		case "up", "k":
			if m.selectedIndex > 0 {
				m.selectedIndex--
				m.preview = nil
				return m, m.loadSelectedDetailCmd()
			}
			return m, nil
		case "down", "j":
			if m.selectedIndex < len(m.items)-1 {
				m.selectedIndex++
				m.preview = nil
				return m, m.loadSelectedDetailCmd()
			}
			return m, nil
		case "f":
			m.statusFilter = nextStatusFilter(m.statusFilter)
			m.status = "filter " + firstNonEmpty(m.statusFilter, "all")
			return m, m.loadInspectionsCmd()
		case "s":
			return m, m.startCmd()
		case "p":
			return m, m.previewCmd()
		case "e":
			return m, m.exportCmd()
		case "c":
			return m, m.completeCmd()
		}
	}
	return m, nil
}

func (m *queueModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("62"))

	var builder strings.Builder
	builder.WriteString(titleStyle.Render("MRC Inspection Console"))
	builder.WriteString("\n")
	builder.WriteString(dimStyle.Render(fmt.Sprintf(
		"operator=%s status=%s export=%s refresh=%s",
		m.operator,
		firstNonEmpty(m.statusFilter, "all"),
		m.exportDir,
		m.refreshInterval,
	)))
	builder.WriteString("\n\n")

	builder.WriteString(sectionStyle.Render("Queue"))
	builder.WriteString("\n")
	if len(m.items) == 0 {
		builder.WriteString(dimStyle.Render("- no inspections"))
		builder.WriteString("\n\n")
	} else {
		for index, item := range m.items {
			line := formatQueueLine(item)
			if index == m.selectedIndex {
				builder.WriteString(selectedStyle.Render("> " + line))
			} else {
				builder.WriteString("  " + line)
			}
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	builder.WriteString(sectionStyle.Render("Detail"))
	builder.WriteString("\n")
	if m.detail == nil {
		builder.WriteString(dimStyle.Render("- no detail"))
		builder.WriteString("\n\n")
	} else {
		builder.WriteString(formatDetail(m.detail))
		builder.WriteString("\n")
	}

	if m.preview != nil {
		builder.WriteString(sectionStyle.Render("Cost Preview"))
		builder.WriteString("\n")
		builder.WriteString(formatBreakdown(*m.preview))
		builder.WriteString("\n")
	}

	builder.WriteString(sectionStyle.Render("Status"))
	builder.WriteString("\n")
	builder.WriteString("- " + firstNonEmpty(m.status, "ready"))
	builder.WriteString("\n\n")

	builder.WriteString(sectionStyle.Render("Actions"))
	builder.WriteString("\n")
	builder.WriteString("- s start inspection\n")
	builder.WriteString("- p preview cost\n")
	builder.WriteString("- e export report\n")
	builder.WriteString("- c complete\n")
	builder.WriteString("- f cycle status filter\n")
	builder.WriteString("\n")

	builder.WriteString(sectionStyle.Render("Audit Log"))
	builder.WriteString("\n")
	if len(m.auditLogs) == 0 {
		builder.WriteString(dimStyle.Render("- no actions"))
		builder.WriteString("\n\n")
	} else {
		for _, line := range m.auditLogs {
			builder.WriteString("- " + line)
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	builder.WriteString(dimStyle.Render("Keys: ↑/k ↓/j move  g refresh  f filter  s/p/e/c actions  q quit"))
	return builder.String()
}

func (m *queueModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m *queueModel) loadInspectionsCmd() tea.Cmd {
	filter := m.statusFilter
	return func() tea.Msg {
		items, err := m.service.List(m.ctx, inspection.ListInput{Status: filter, Limit: m.limit})
		if err != nil {
			return inspectionsLoadedMsg{err: err}
		}
		return inspectionsLoadedMsg{items: sortQueue(items)}
	}
}

func (m *queueModel) loadSelectedDetailCmd() tea.Cmd {
	selected, ok := m.selectedItem()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		detail, err := m.service.Get(m.ctx, selected.ID)
		if err != nil {
			return inspectionDetailLoadedMsg{inspectionID: selected.ID, err: err}
		}
		return inspectionDetailLoadedMsg{inspectionID: selected.ID, detail: detail}
	}
}

func (m *queueModel) startCmd() tea.Cmd {
	item, ok := m.selectedItem()
	if !ok {
		m.status = "no inspection selected"
		return nil
	}
	if item.Status != domain.StatusScheduled {
		m.status = "only scheduled inspections can be started"
		return nil
	}
	m.status = "starting..."
	return func() tea.Msg {
		insp, err := m.service.Start(m.ctx, inspection.Ref{InspectionID: item.ID, ExpectedVersion: item.Version})
		if err != nil {
			return actionDoneMsg{action: "start", inspectionID: item.ID, err: err}
		}
		return actionDoneMsg{action: "start", inspectionID: item.ID, result: "job " + insp.JobNumber}
	}
}

func (m *queueModel) previewCmd() tea.Cmd {
	item, ok := m.selectedItem()
	if !ok {
		m.status = "no inspection selected"
		return nil
	}
	m.status = "pricing..."
	return func() tea.Msg {
		breakdown, err := m.service.PreviewInspectionCost(m.ctx, item.ID)
		return costPreviewMsg{inspectionID: item.ID, breakdown: breakdown, err: err}
	}
}

func (m *queueModel) exportCmd() tea.Cmd {
	item, ok := m.selectedItem()
	if !ok {
		m.status = "no inspection selected"
		return nil
	}
	path := reportPath(m.exportDir, item)
	m.status = "exporting..."
	return func() tea.Msg {
		if err := writeReport(m.ctx, m.service, item.ID, path); err != nil {
			return actionDoneMsg{action: "export", inspectionID: item.ID, err: err}
		}
		return actionDoneMsg{action: "export", inspectionID: item.ID, result: path}
	}
}

func (m *queueModel) completeCmd() tea.Cmd {
	item, ok := m.selectedItem()
	if !ok {
		m.status = "no inspection selected"
		return nil
	}
	if item.Status != domain.StatusInProgress {
		m.status = "only in-progress inspections can be completed"
		return nil
	}
	m.status = "completing..."
	return func() tea.Msg {
		result, err := m.service.Complete(m.ctx, inspection.CompleteInput{
			InspectionID:    item.ID,
			ExpectedVersion: item.Version,
		})
		if err != nil {
			return actionDoneMsg{action: "complete", inspectionID: item.ID, err: err}
		}
		outcome := costing.FormatAUD(result.Inspection.Cost.FinalCost)
		if result.LeadUpdateError != nil || result.EventError != nil {
			outcome += " (follow-up failed)"
		}
		return actionDoneMsg{action: "complete", inspectionID: item.ID, result: outcome}
	}
}

func writeReport(ctx context.Context, service InspectionService, inspectionID string, path string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
	}()
	return service.ExportReport(ctx, inspectionID, file)
}

func (m *queueModel) selectedItem() (ports.InspectionSummary, bool) {
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.items) {
		return ports.InspectionSummary{}, false
	}
	return m.items[m.selectedIndex], true
}

func (m *queueModel) isCurrentSelection(inspectionID string) bool {
	selected, ok := m.selectedItem()
	if !ok {
		return false
	}
	return selected.ID == strings.TrimSpace(inspectionID)
}

func (m *queueModel) appendAuditLog(action string, inspectionID string, result string, opErr error) {
	outcome := strings.TrimSpace(result)
	if opErr != nil {
		outcome = "error: " + opErr.Error()
	}
	if outcome == "" {
		outcome = "ok"
	}

	timestamp := time.Now().UTC().Format(time.RFC3339)
	line := fmt.Sprintf("%s operator=%s inspection=%s action=%s result=%s", timestamp, m.operator, shortID(inspectionID), action, outcome)
	m.auditLogs = append([]string{line}, m.auditLogs...)
	if len(m.auditLogs) > maxAuditLines {
		m.auditLogs = m.auditLogs[:maxAuditLines]
	}

	logging.Info(m.ctx, "inspection console action",
		slog.String("operator", m.operator),
		slog.String("inspection_id", inspectionID),
		slog.String("action", action),
		slog.String("result", outcome),
	)
}

// sortQueue puts in-progress work first, then scheduled, then completed.
// Within a status the most recently touched inspection leads.
func sortQueue(items []ports.InspectionSummary) []ports.InspectionSummary {
	sorted := append([]ports.InspectionSummary(nil), items...)
	sort.SliceStable(sorted, func(i int, j int) bool {
		ri, rj := statusRank(sorted[i].Status), statusRank(sorted[j].Status)
		if ri != rj {
			return ri < rj
		}
		if !sorted[i].UpdatedAt.Equal(sorted[j].UpdatedAt) {
			return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

func statusRank(status domain.Status) int {
	switch status {
	case domain.StatusInProgress:
		return 0
	case domain.StatusScheduled:
		return 1
	case domain.StatusCompleted:
		return 2
	default:
		return 3
	}
}

func normalizeStatusFilter(input string) string {
	value := strings.TrimSpace(strings.ToUpper(input))
	value = strings.ReplaceAll(value, "-", "_")
	switch value {
	case "", "ALL":
		return ""
	case "DOING", "STARTED":
		return string(domain.StatusInProgress)
	case "DONE":
		return string(domain.StatusCompleted)
	default:
		return value
	}
}

func nextStatusFilter(current string) string {
	switch current {
	case "":
		return string(domain.StatusScheduled)
	case string(domain.StatusScheduled):
		return string(domain.StatusInProgress)
	case string(domain.StatusInProgress):
		return string(domain.StatusCompleted)
	default:
		return ""
	}
}

func formatQueueLine(item ports.InspectionSummary) string {
	return fmt.Sprintf("%s [%s] job=%s v%d updated=%s",
		shortID(item.ID),
		strings.ToLower(string(item.Status)),
		firstNonEmpty(item.JobNumber, "-"),
		item.Version,
		item.UpdatedAt.UTC().Format("2006-01-02 15:04"),
	)
}

func formatDetail(insp *domain.Inspection) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Inspection: %s\n", insp.ID)
	fmt.Fprintf(&b, "Job: %s\n", firstNonEmpty(insp.JobNumber, "-"))
	fmt.Fprintf(&b, "Status: %s (v%d)\n", insp.Status, insp.Version)
	fmt.Fprintf(&b, "Address: %s\n", firstNonEmpty(insp.Header.Address, "-"))
	fmt.Fprintf(&b, "Outdoor dew point: %s\n", formatOptionalFloat(insp.Outdoor.DewPoint))
	if insp.Cost != nil {
		fmt.Fprintf(&b, "Final cost: %s\n", costing.FormatAUD(insp.Cost.FinalCost))
	}

	b.WriteString("\nAreas:\n")
	if len(insp.Areas) == 0 {
		b.WriteString("- none\n")
		return b.String()
	}
	shown := insp.Areas
	if len(shown) > maxShownAreas {
		shown = shown[:maxShownAreas]
	}
	for _, area := range shown {
		fmt.Fprintf(&b, "- %d. %s dew=%s (%s) job=%dm\n",
			area.OrderIndex+1,
			firstNonEmpty(area.Name, "unnamed"),
			formatOptionalFloat(area.Climate.DewPoint),
			dewPointMode(area.Climate),
			area.JobTimeMinutes,
		)
	}
	if hidden := len(insp.Areas) - len(shown); hidden > 0 {
		fmt.Fprintf(&b, "- ... %d more\n", hidden)
	}
	return b.String()
}

func formatBreakdown(b costing.Breakdown) string {
	return fmt.Sprintf("Work type: %s\nHours: %s at %s (discount %s)\nLabour: %s  Equipment: %s\nSubtotal: %s  GST: %s  Total: %s\n",
		b.WorkType,
		b.TotalHours.StringFixed(2),
		costing.FormatAUD(b.HourlyRate),
		costing.FormatPercent(b.DiscountPercent),
		costing.FormatAUD(b.LabourCost),
		costing.FormatAUD(b.EquipmentCost),
		costing.FormatAUD(b.Subtotal),
		costing.FormatAUD(b.GST),
		costing.FormatAUD(b.TotalCost),
	)
}

func formatOptionalFloat(value *float64) string {
	if value == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *value)
}

func reportPath(dir string, item ports.InspectionSummary) string {
	name := firstNonEmpty(item.JobNumber, item.ID)
	name = strings.NewReplacer("/", "-", "\\", "-", " ", "_").Replace(name)
	return filepath.Join(dir, "inspection-"+name+".xlsx")
}

func clampIndex(index int, length int) int {
	if index < 0 {
		return 0
	}
	if index >= length {
		return length - 1
	}
	return index
}

func shortID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		normalized := strings.TrimSpace(value)
		if normalized != "" {
			return normalized
		}
	}
	return ""
}

func dewPointMode(climate domain.AreaClimate) string {
	if climate.Mode == "" {
		return strings.ToLower(string(domain.DewPointAuto))
	}
	return strings.ToLower(string(climate.Mode))
}
