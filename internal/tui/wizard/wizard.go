// ABOUTME: Stage registration wizard as a bubbletea model
// ABOUTME: Walks basics, unlock preset, preset details and hints with a progress indicator

package wizard

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/kimguny/xpg-admin/internal/model"
	"github.com/kimguny/xpg-admin/internal/tui/icons"
	"github.com/kimguny/xpg-admin/internal/tui/styles"
	"github.com/kimguny/xpg-admin/internal/validate"
)

// WizardCompleteMsg is sent when the wizard finishes successfully
type WizardCompleteMsg struct {
	ContentID string
	Input     model.StageInput
}

// WizardCancelledMsg is sent when the wizard is cancelled
type WizardCancelledMsg struct{}

// Options seeds the wizard with what the content already has
type Options struct {
	ContentID    string
	ContentTitle string
	Stages       []model.Stage
	Tags         []model.NFCTag
}

// Wizard manages the stage registration flow as a bubbletea model
type Wizard struct {
	opts  Options
	input model.StageInput
	form  *huh.Form
	step  int
	width int
	err   string

	// Form field values (strings for huh)
	title        string
	description  string
	order        string
	rewardPoints string
	preset       string
	prevStage    string
	nfcTag       string
	latitude     string
	longitude    string
	radius       string
	puzzleType   string
	question     string
	answer       string
	choices      string
	hints        string
	hintPenalty  string
}

// Step names for progress indicator
var stepNames = []string{"Basics", "Unlock", "Details", "Hints"}

const (
	stepBasics = iota + 1
	stepUnlock
	stepDetails
	stepHints
)

var presetLabels = map[string]string{
	model.UnlockNone:          "Open from the start",
	model.UnlockPreviousStage: "After a previous stage",
	model.UnlockNFC:           "Scan an NFC tag",
	model.UnlockLocation:      "Reach a location",
	model.UnlockPuzzle:        "Solve a puzzle",
}

// New creates a wizard for adding a stage to a content
func New(opts Options) *Wizard {
	w := &Wizard{
		opts:         opts,
		step:         stepBasics,
		order:        strconv.Itoa(len(opts.Stages) + 1),
		rewardPoints: "100",
		preset:       model.UnlockNone,
		radius:       "30",
		puzzleType:   model.PuzzleText,
		hintPenalty:  "10",
	}
	if len(opts.Stages) > 0 {
		w.preset = model.UnlockPreviousStage
		w.prevStage = opts.Stages[len(opts.Stages)-1].ID
	}

	w.form = w.createBasicsForm()
	return w
}

func (w *Wizard) createBasicsForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Stage title").
				CharLimit(100).
				Value(&w.title).
				Validate(validateRequired),
			huh.NewText().
				Title("Description").
				Description("Shown to players before they start the stage").
				CharLimit(2000).
				Lines(3).
				Value(&w.description),
			huh.NewInput().
				Title("Order").
				CharLimit(3).
				Value(&w.order).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Reward points").
				CharLimit(6).
				Value(&w.rewardPoints).
				Validate(validateNonNegativeInt),
		).Title("Step 1: Basics").
			Description(fmt.Sprintf("New stage for %s", w.contentLabel())),
	).WithTheme(styles.FormTheme())
}

func (w *Wizard) createUnlockForm() *huh.Form {
	opts := make([]huh.Option[string], 0, len(model.UnlockPresets))
	for _, p := range model.UnlockPresets {
		opts = append(opts, huh.NewOption(presetLabels[p], p))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Unlock preset").
				Description("Use ↑/↓ to select, Enter to confirm").
				Options(opts...).
				Value(&w.preset),
		).Title("Step 2: Unlock").
			Description("What must a player do before this stage opens?"),
	).WithTheme(styles.FormTheme())
}

// createDetailsForm returns nil when the preset needs no details
func (w *Wizard) createDetailsForm() *huh.Form {
	var fields []huh.Field

	switch w.preset {
	case model.UnlockPreviousStage:
		if len(w.opts.Stages) > 0 {
			opts := make([]huh.Option[string], 0, len(w.opts.Stages))
			for _, s := range w.opts.Stages {
				opts = append(opts, huh.NewOption(fmt.Sprintf("%d. %s", s.Order, s.Title), s.ID))
			}
			fields = append(fields, huh.NewSelect[string]().Title("Previous stage").Options(opts...).Value(&w.prevStage))
		} else {
			fields = append(fields, huh.NewInput().Title("Previous stage ID").Value(&w.prevStage).Validate(validateRequired))
		}

	case model.UnlockNFC:
		if len(w.opts.Tags) > 0 {
			opts := make([]huh.Option[string], 0, len(w.opts.Tags))
			for _, t := range w.opts.Tags {
				opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s)", t.Name, t.UID), t.ID))
			}
			fields = append(fields, huh.NewSelect[string]().Title("NFC tag").Options(opts...).Value(&w.nfcTag))
		} else {
			fields = append(fields, huh.NewInput().Title("NFC tag ID").Value(&w.nfcTag).Validate(validateRequired))
		}

	case model.UnlockLocation:
		fields = append(fields,
			huh.NewInput().Title("Latitude").Placeholder("37.5665").Value(&w.latitude).Validate(validateFloatRange(-90, 90)),
			huh.NewInput().Title("Longitude").Placeholder("126.9780").Value(&w.longitude).Validate(validateFloatRange(-180, 180)),
			huh.NewInput().Title("Radius (m)").Value(&w.radius).Validate(validateIntRange(5, 5000)),
		)

	case model.UnlockPuzzle:
		fields = append(fields,
			huh.NewSelect[string]().
				Title("Puzzle type").
				Options(huh.NewOption("Free text answer", model.PuzzleText), huh.NewOption("Multiple choice", model.PuzzleChoice)).
				Value(&w.puzzleType),
			huh.NewInput().Title("Question").CharLimit(500).Value(&w.question).Validate(validateRequired),
			huh.NewInput().Title("Answer").CharLimit(200).Value(&w.answer).Validate(validateRequired),
			huh.NewInput().
				Title("Choices").
				Description("Comma separated, multiple choice only").
				Value(&w.choices).
				Validate(w.validateChoices),
		)

	default:
		return nil
	}

	return huh.NewForm(
		huh.NewGroup(fields...).
			Title("Step 3: " + presetLabels[w.preset]),
	).WithTheme(styles.FormTheme())
}

func (w *Wizard) createHintsForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Text hints").
				Description("One hint per line, up to 5. Leave empty for none").
				Lines(5).
				Value(&w.hints).
				Validate(validateHints),
			huh.NewInput().
				Title("Penalty points per hint").
				CharLimit(5).
				Value(&w.hintPenalty).
				Validate(validateNonNegativeInt),
		).Title("Step 4: Hints").
			Description("Players spend points to reveal hints"),
	).WithTheme(styles.FormTheme())
}

func (w *Wizard) contentLabel() string {
	if w.opts.ContentTitle != "" {
		return w.opts.ContentTitle
	}
	return w.opts.ContentID
}

// ContentTitle returns the title of the content the stage is added to
func (w *Wizard) ContentTitle() string {
	return w.opts.ContentTitle
}

// Init implements tea.Model
func (w *Wizard) Init() tea.Cmd {
	return w.form.Init()
}

// Update implements tea.Model
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		form, cmd := w.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			w.form = f
		}
		return w, cmd

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return w, func() tea.Msg { return WizardCancelledMsg{} }
		}
	}

	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}

	if w.form.State == huh.StateCompleted {
		return w.advanceStep()
	}

	return w, cmd
}

func (w *Wizard) advanceStep() (tea.Model, tea.Cmd) {
	switch w.step {
	case stepBasics:
		w.step = stepUnlock
		w.form = w.createUnlockForm()
		return w, w.form.Init()

	case stepUnlock:
		w.step = stepDetails
		if form := w.createDetailsForm(); form != nil {
			w.form = form
			return w, w.form.Init()
		}
		return w.advanceStep()

	case stepDetails:
		w.step = stepHints
		w.form = w.createHintsForm()
		return w, w.form.Init()

	case stepHints:
		input := w.BuildInput()
		if err := validate.Struct(input); err != nil {
			w.err = err.Error()
			w.form = w.createHintsForm()
			return w, w.form.Init()
		}
		w.input = input
		contentID := w.opts.ContentID
		return w, func() tea.Msg {
			return WizardCompleteMsg{ContentID: contentID, Input: input}
		}
	}

	return w, nil
}

// BuildInput converts the collected answers into a stage payload
func (w *Wizard) BuildInput() model.StageInput {
	in := model.StageInput{
		Title:        strings.TrimSpace(w.title),
		Description:  strings.TrimSpace(w.description),
		UnlockPreset: w.preset,
	}
	in.Order, _ = strconv.Atoi(w.order)
	in.RewardPoints, _ = strconv.Atoi(w.rewardPoints)

	switch w.preset {
	case model.UnlockPreviousStage:
		in.Unlock.PreviousStageID = w.prevStage
	case model.UnlockNFC:
		in.Unlock.NFCTagID = w.nfcTag
	case model.UnlockLocation:
		if lat, err := strconv.ParseFloat(strings.TrimSpace(w.latitude), 64); err == nil {
			in.Unlock.Latitude = &lat
		}
		if lng, err := strconv.ParseFloat(strings.TrimSpace(w.longitude), 64); err == nil {
			in.Unlock.Longitude = &lng
		}
		in.Unlock.RadiusM, _ = strconv.Atoi(w.radius)
	case model.UnlockPuzzle:
		p := &model.PuzzleConfig{
			Type:     w.puzzleType,
			Question: strings.TrimSpace(w.question),
			Answer:   strings.TrimSpace(w.answer),
		}
		if w.puzzleType == model.PuzzleChoice {
			p.Choices = splitChoices(w.choices)
		}
		in.Puzzle = p
	}

	penalty, _ := strconv.Atoi(w.hintPenalty)
	for i, text := range splitLines(w.hints) {
		in.Hints = append(in.Hints, model.HintInput{
			Order:         i + 1,
			Preset:        model.HintText,
			Text:          text,
			PenaltyPoints: penalty,
		})
	}

	return in
}

// SetWidth sets the wizard width for proper rendering
func (w *Wizard) SetWidth(width int) {
	w.width = width
}

// View implements tea.Model
func (w *Wizard) View() string {
	var sb strings.Builder

	sb.WriteString(w.renderProgress())
	sb.WriteString("\n\n")
	sb.WriteString(w.form.View())

	if w.err != "" {
		sb.WriteString("\n")
		sb.WriteString(styles.ErrorText.Render(w.err))
	}

	return sb.String()
}

// renderProgress renders the step progress indicator
func (w *Wizard) renderProgress() string {
	width := w.width - 1
	if width < 60 {
		width = 60
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary)

	var steps []string
	for i, name := range stepNames {
		stepNum := i + 1
		var indicator string
		var nameStyle lipgloss.Style

		switch {
		case stepNum < w.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Secondary).Render(icons.CheckOK.String())
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		case stepNum == w.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("●")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
		default:
			indicator = lipgloss.NewStyle().Foreground(styles.Muted).Render("○")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		}

		steps = append(steps, fmt.Sprintf("%s %s", indicator, nameStyle.Render(name)))
	}

	stepsLine := strings.Join(steps, "    ")

	// "│  " + bar + " │"
	barWidth := width - 5
	filledWidth := (w.step * barWidth) / len(stepNames)

	progressBar := lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("━", filledWidth)) +
		lipgloss.NewStyle().Foreground(styles.Surface).Render(strings.Repeat("─", barWidth-filledWidth))

	label := "New stage"
	topFillWidth := max(0, width-5-lipgloss.Width(label))
	topBorder := "┌─ " + titleStyle.Render(label) + " " + strings.Repeat("─", topFillWidth) + "┐"

	stepsPadding := max(0, width-4-lipgloss.Width(stepsLine))
	stepsLinePadded := "│ " + stepsLine + strings.Repeat(" ", stepsPadding) + " │"

	progressLinePadded := "│  " + progressBar + " │"
	bottomBorder := "└" + strings.Repeat("─", width-2) + "┘"

	return borderStyle.Render(strings.Join([]string{
		topBorder,
		stepsLinePadded,
		progressLinePadded,
		bottomBorder,
	}, "\n"))
}

func splitChoices(s string) []string {
	var out []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func (w *Wizard) validateChoices(s string) error {
	if w.puzzleType != model.PuzzleChoice {
		return nil
	}
	if n := len(splitChoices(s)); n < 2 || n > 6 {
		return fmt.Errorf("enter 2 to 6 choices")
	}
	return nil
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

func validatePositiveInt(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fmt.Errorf("must be a positive number")
	}
	return nil
}

func validateNonNegativeInt(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return fmt.Errorf("must be 0 or more")
	}
	return nil
}

func validateIntRange(lo, hi int) func(string) error {
	return func(s string) error {
		v, err := strconv.Atoi(s)
		if err != nil || v < lo || v > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}

func validateFloatRange(lo, hi float64) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || v < lo || v > hi {
			return fmt.Errorf("must be between %g and %g", lo, hi)
		}
		return nil
	}
}

func validateHints(s string) error {
	if len(splitLines(s)) > 5 {
		return fmt.Errorf("at most 5 hints")
	}
	return nil
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
