package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pullerize/my-main-tasks-sub000/pkg"
	"github.com/pullerize/my-main-tasks-sub000/src/catalog"
	"github.com/pullerize/my-main-tasks-sub000/src/logger"
	"github.com/pullerize/my-main-tasks-sub000/src/model"
	"github.com/pullerize/my-main-tasks-sub000/src/session"
)

// MinTitleLength is the shortest accepted task title
const MinTitleLength = 3

// Engine drives the task-creation wizard. Every inbound event is handled as
// an independent unit of work inside a per-user critical section, so rapid
// double-taps cannot produce divergent session states.
type Engine struct {
	store     session.Store
	provider  *catalog.Provider
	committer *Committer
	vocab     *model.Vocabulary
	deadlines *DeadlineResolver
	now       func() time.Time

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewEngine wires the wizard over its collaborators
func NewEngine(store session.Store, provider *catalog.Provider, committer *Committer, vocab *model.Vocabulary, deadlines *DeadlineResolver) *Engine {
	return &Engine{
		store:     store,
		provider:  provider,
		committer: committer,
		vocab:     vocab,
		deadlines: deadlines,
		now:       time.Now,
		locks:     make(map[int64]*sync.Mutex),
	}
}

// userLock returns the mutex guarding one user's session
func (e *Engine) userLock(userID int64) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[userID] = lock
	}
	return lock
}

// Start creates (or overwrites) the user's session. A non-empty fixedRole
// pins the executor role by caller permission and begins at executor
// selection; otherwise the wizard begins at role selection.
func (e *Engine) Start(ctx context.Context, userID int64, fixedRole string) (pkg.RenderInstruction, error) {
	lock := e.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	sess := &pkg.Session{
		UserID: userID,
		Step:   pkg.StepRoleSelection,
	}
	if fixedRole != "" {
		if e.vocab.Role(fixedRole) == nil {
			return pkg.RenderInstruction{}, fmt.Errorf("unknown fixed role: %s", fixedRole)
		}
		sess.Draft.ExecutorRole = fixedRole
		sess.RoleFixed = true
		sess.Step = pkg.StepExecutorSelection
	}

	if err := e.store.Save(ctx, sess); err != nil {
		return pkg.RenderInstruction{}, fmt.Errorf("failed to save session: %w", err)
	}

	logger.Info().Int64("user_id", userID).Str("step", string(sess.Step)).Msg("wizard started")

	instr := e.prompt(ctx, sess)
	if err := e.store.Save(ctx, sess); err != nil {
		return pkg.RenderInstruction{}, fmt.Errorf("failed to save session: %w", err)
	}
	return instr, nil
}

// OnUserEvent is the single entry point for every inbound button press or
// text message while a session is active.
func (e *Engine) OnUserEvent(ctx context.Context, userID int64, rawText string) (pkg.RenderInstruction, error) {
	lock := e.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := e.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, pkg.ErrSessionNotFound) {
			return pkg.RenderInstruction{Text: "No task creation in progress.", Done: true}, nil
		}
		return pkg.RenderInstruction{}, fmt.Errorf("failed to load session: %w", err)
	}

	text := strings.TrimSpace(rawText)

	var instr pkg.RenderInstruction
	switch {
	case isControl(text, CancelCommand) || isButton(text, BtnCancel):
		if derr := e.store.Delete(ctx, userID); derr != nil {
			return pkg.RenderInstruction{}, fmt.Errorf("failed to delete session: %w", derr)
		}
		logger.Info().Int64("user_id", userID).Str("step", string(sess.Step)).Msg("wizard cancelled")
		return pkg.RenderInstruction{Text: "❌ Task creation cancelled.", Done: true}, nil
	case isButton(text, BtnBack):
		instr = e.handleBack(ctx, sess)
	default:
		instr = e.dispatch(ctx, sess, text)
	}

	if !instr.Done {
		if serr := e.store.Save(ctx, sess); serr != nil {
			return pkg.RenderInstruction{}, fmt.Errorf("failed to save session: %w", serr)
		}
	}
	return instr, nil
}

func (e *Engine) dispatch(ctx context.Context, sess *pkg.Session, text string) pkg.RenderInstruction {
	switch sess.Step {
	case pkg.StepRoleSelection:
		return e.handleRoleSelection(ctx, sess, text)
	case pkg.StepExecutorSelection:
		return e.handleExecutorSelection(ctx, sess, text)
	case pkg.StepProjectSelection:
		return e.handleProjectSelection(ctx, sess, text)
	case pkg.StepTaskTypeSelection:
		return e.handleTaskTypeSelection(ctx, sess, text)
	case pkg.StepFormatSelection:
		return e.handleFormatSelection(ctx, sess, text)
	case pkg.StepTitleInput:
		return e.handleTitleInput(ctx, sess, text)
	case pkg.StepDescriptionInput:
		return e.handleDescriptionInput(ctx, sess, text)
	case pkg.StepDeadlineInput:
		return e.handleDeadlineInput(ctx, sess, text)
	case pkg.StepPreview:
		return e.handlePreview(ctx, sess, text)
	case pkg.StepEditSelection:
		return e.handleEditSelection(ctx, sess, text)
	case pkg.StepFinalConfirmation:
		return e.handleFinalConfirmation(ctx, sess, text)
	default:
		logger.Error().Int64("user_id", sess.UserID).Str("step", string(sess.Step)).Msg("unknown wizard step")
		sess.Step = pkg.StepRoleSelection
		return e.prompt(ctx, sess)
	}
}

// ----------------------------------------------------
// ================ Step handlers ================

func (e *Engine) handleRoleSelection(ctx context.Context, sess *pkg.Session, text string) pkg.RenderInstruction {
	opts, err := e.optionsFor(ctx, sess, pkg.StepRoleSelection)
	if err != nil {
		return e.lookupRetry(sess)
	}

	opt, merr := Match(text, opts)
	if merr != nil {
		return e.rePrompt(ctx, sess, "⚠️ Please choose one of the options below.")
	}

	role := strings.TrimPrefix(opt.Key, "role:")
	if sess.Draft.ExecutorRole != "" && sess.Draft.ExecutorRole != role {
		// A role switch invalidates everything scoped to the old role:
		// the executor, the category, the format, and their cached lists.
		sess.Draft.ExecutorID = 0
		sess.Draft.ExecutorName = ""
		sess.Draft.ExecutorChatID = 0
		sess.Draft.TaskType = ""
		sess.Draft.Format = ""
		sess.DropOptions(pkg.StepExecutorSelection)
		sess.DropOptions(pkg.StepTaskTypeSelection)
		sess.DropOptions(pkg.StepFormatSelection)
	}
	sess.Draft.ExecutorRole = role
	return e.advance(ctx, sess, pkg.StepRoleSelection)
}

func (e *Engine) handleExecutorSelection(ctx context.Context, sess *pkg.Session, text string) pkg.RenderInstruction {
	opts, err := e.optionsFor(ctx, sess, pkg.StepExecutorSelection)
	if err != nil {
		return e.lookupRetry(sess)
	}

	opt, merr := Match(text, opts)
	if merr != nil || opt.User == nil {
		return e.rePrompt(ctx, sess, "⚠️ Please choose one of the options below.")
	}

	sess.Draft.ExecutorID = opt.User.ID
	sess.Draft.ExecutorName = opt.User.Name
	sess.Draft.ExecutorChatID = opt.User.ChatID
	return e.advance(ctx, sess, pkg.StepExecutorSelection)
}

func (e *Engine) handleProjectSelection(ctx context.Context, sess *pkg.Session, text string) pkg.RenderInstruction {
	opts, err := e.optionsFor(ctx, sess, pkg.StepProjectSelection)
	if err != nil {
		return e.lookupRetry(sess)
	}

	opt, merr := Match(text, opts)
	if merr != nil {
		return e.rePrompt(ctx, sess, "⚠️ Please choose one of the options below.")
	}

	if opt.Key == catalog.NoProjectKey {
		sess.Draft.ProjectID = nil
		sess.Draft.ProjectName = ""
	} else if opt.Project != nil {
		id := opt.Project.ID
		sess.Draft.ProjectID = &id
		sess.Draft.ProjectName = opt.Project.Name
	} else {
		return e.rePrompt(ctx, sess, "⚠️ Please choose one of the options below.")
	}
	return e.advance(ctx, sess, pkg.StepProjectSelection)
}

func (e *Engine) handleTaskTypeSelection(ctx context.Context, sess *pkg.Session, text string) pkg.RenderInstruction {
	opts, err := e.optionsFor(ctx, sess, pkg.StepTaskTypeSelection)
	if err != nil {
		return e.lookupRetry(sess)
	}

	opt, merr := Match(text, opts)
	if merr != nil {
		return e.rePrompt(ctx, sess, "⚠️ Please choose one of the options below.")
	}

	sess.Draft.TaskType = StripDecor(opt.Label)
	return e.advance(ctx, sess, pkg.StepTaskTypeSelection)
}

func (e *Engine) handleFormatSelection(ctx context.Context, sess *pkg.Session, text string) pkg.RenderInstruction {
	opts, err := e.optionsFor(ctx, sess, pkg.StepFormatSelection)
	if err != nil {
		return e.lookupRetry(sess)
	}

	opt, merr := Match(text, opts)
	if merr != nil {
		return e.rePrompt(ctx, sess, "⚠️ Please choose one of the options below.")
	}

	sess.Draft.Format = StripDecor(opt.Label)
	return e.advance(ctx, sess, pkg.StepFormatSelection)
}

func (e *Engine) handleTitleInput(ctx context.Context, sess *pkg.Session, text string) pkg.RenderInstruction {
	if len([]rune(text)) < MinTitleLength {
		return e.rePrompt(ctx, sess, fmt.Sprintf("⚠️ The title must be at least %d characters long.", MinTitleLength))
	}

	sess.Draft.Title = text
	return e.advance(ctx, sess, pkg.StepTitleInput)
}

func (e *Engine) handleDescriptionInput(ctx context.Context, sess *pkg.Session, text string) pkg.RenderInstruction {
	if isButton(text, BtnSkip) {
		sess.Draft.Description = ""
	} else if text == "" {
		return e.rePrompt(ctx, sess, "⚠️ Send a description or press Skip.")
	} else {
		sess.Draft.Description = text
	}
	return e.advance(ctx, sess, pkg.StepDescriptionInput)
}

func (e *Engine) handleDeadlineInput(ctx context.Context, sess *pkg.Session, text string) pkg.RenderInstruction {
	now := e.now()

	if opt, merr := Match(text, e.deadlines.CannedOptions()); merr == nil {
		if opt.Key == DeadlineNone {
			sess.Draft.Deadline = nil
			sess.Draft.DeadlineDisplay = ""
		} else {
			at, display := e.deadlines.ResolveKey(opt.Key, now)
			sess.Draft.Deadline = at
			sess.Draft.DeadlineDisplay = display
		}
		return e.advance(ctx, sess, pkg.StepDeadlineInput)
	}

	at, display, err := e.deadlines.ResolveText(text, now)
	switch {
	case errors.Is(err, pkg.ErrPastDeadline):
		return e.rePrompt(ctx, sess, "⚠️ The deadline must be in the future.")
	case errors.Is(err, pkg.ErrUnparseableDeadline):
		return e.rePrompt(ctx, sess, "⚠️ I could not read that date. Use a format like 18.09.2025 18:00.")
	case err != nil:
		return e.rePrompt(ctx, sess, "⚠️ I could not read that date. Use a format like 18.09.2025 18:00.")
	}

	sess.Draft.Deadline = at
	sess.Draft.DeadlineDisplay = display
	return e.advance(ctx, sess, pkg.StepDeadlineInput)
}

func (e *Engine) handlePreview(ctx context.Context, sess *pkg.Session, text string) pkg.RenderInstruction {
	switch {
	case isButton(text, BtnConfirm):
		sess.Step = pkg.StepFinalConfirmation
		return e.runCommit(ctx, sess)
	case isButton(text, BtnEdit):
		sess.Step = pkg.StepEditSelection
		return e.prompt(ctx, sess)
	default:
		return e.rePrompt(ctx, sess, "⚠️ Please choose one of the options below.")
	}
}

func (e *Engine) handleEditSelection(ctx context.Context, sess *pkg.Session, text string) pkg.RenderInstruction {
	opts, _ := e.optionsFor(ctx, sess, pkg.StepEditSelection)

	opt, merr := Match(text, opts)
	if merr != nil {
		return e.rePrompt(ctx, sess, "⚠️ Please choose one of the options below.")
	}

	target, ok := EditTarget(opt.Key)
	if !ok {
		return e.rePrompt(ctx, sess, "⚠️ Please choose one of the options below.")
	}

	sess.EditingField = target
	sess.ReturnToPreview = true
	sess.DropOptions(target) // edited steps re-fetch their option list
	sess.Step = target
	e.persist(ctx, sess)
	return e.prompt(ctx, sess)
}

func (e *Engine) handleFinalConfirmation(ctx context.Context, sess *pkg.Session, text string) pkg.RenderInstruction {
	if isButton(text, BtnRetry) || isButton(text, BtnConfirm) {
		return e.runCommit(ctx, sess)
	}
	return pkg.RenderInstruction{
		Text:    "⚠️ The task has not been created yet. Retry or cancel.",
		Buttons: []string{BtnRetry, BtnCancel},
	}
}

// ----------------------------------------------------
// ================ Transitions ================

// advance moves past a completed step: straight back to the preview when the
// step was entered through edit, otherwise to the next step of the plan.
func (e *Engine) advance(ctx context.Context, sess *pkg.Session, completed pkg.StepID) pkg.RenderInstruction {
	if sess.ReturnToPreview {
		sess.ReturnToPreview = false
		sess.EditingField = ""
		sess.Step = pkg.StepPreview
		return e.prompt(ctx, sess)
	}

	next, ok := e.plan(sess).Next(completed)
	if !ok {
		next = pkg.StepPreview
	}
	sess.Step = next
	e.persist(ctx, sess)
	return e.prompt(ctx, sess)
}

// persist flushes the session so the step on record matches the step being
// rendered; prompt lookups verify against it before applying results
func (e *Engine) persist(ctx context.Context, sess *pkg.Session) {
	if err := e.store.Save(ctx, sess); err != nil {
		logger.Error().Err(err).Int64("user_id", sess.UserID).Msg("failed to save session")
	}
}

func (e *Engine) handleBack(ctx context.Context, sess *pkg.Session) pkg.RenderInstruction {
	// Back during an edit jump abandons the edit and returns to the preview
	if sess.ReturnToPreview {
		sess.ReturnToPreview = false
		sess.EditingField = ""
		sess.Step = pkg.StepPreview
		return e.prompt(ctx, sess)
	}

	switch sess.Step {
	case pkg.StepRoleSelection:
		return e.rePrompt(ctx, sess, "You are at the first step.")
	case pkg.StepExecutorSelection:
		if sess.RoleFixed {
			return e.rePrompt(ctx, sess, "You are at the first step.")
		}
	case pkg.StepEditSelection, pkg.StepFinalConfirmation:
		sess.Step = pkg.StepPreview
		return e.prompt(ctx, sess)
	}

	prev, ok := e.plan(sess).Prev(sess.Step)
	if !ok {
		return e.rePrompt(ctx, sess, "You are at the first step.")
	}
	sess.Step = prev
	e.persist(ctx, sess)
	return e.prompt(ctx, sess)
}

func (e *Engine) runCommit(ctx context.Context, sess *pkg.Session) pkg.RenderInstruction {
	taskID, err := e.committer.Commit(ctx, sess.Draft, sess.UserID)
	if err != nil {
		var pe *pkg.PersistenceError
		if errors.As(err, &pe) {
			// Session stays at final confirmation so retry skips the wizard
			logger.Error().Err(err).Int64("user_id", sess.UserID).Msg("task creation failed")
			return pkg.RenderInstruction{
				Text:    "⚠️ The task was not created, the storage rejected it. Retry?",
				Buttons: []string{BtnRetry, BtnCancel},
			}
		}

		logger.Error().Err(err).Int64("user_id", sess.UserID).Msg("draft failed validation at commit")
		sess.Step = pkg.StepPreview
		return e.rePrompt(ctx, sess, "⚠️ "+err.Error())
	}

	if derr := e.store.Delete(ctx, sess.UserID); derr != nil {
		logger.Error().Err(derr).Int64("user_id", sess.UserID).Msg("failed to remove session after commit")
	}

	logger.Info().Str("task_id", taskID).Int64("user_id", sess.UserID).Msg("wizard completed")

	return pkg.RenderInstruction{
		Text: "✅ Task created: " + sess.Draft.Title,
		Done: true,
	}
}

// ----------------------------------------------------
// ================ Rendering ================

// prompt renders the message and buttons for the session's current step
func (e *Engine) prompt(ctx context.Context, sess *pkg.Session) pkg.RenderInstruction {
	switch sess.Step {
	case pkg.StepRoleSelection:
		return e.selectionPrompt(ctx, sess, "Whose task is this? Choose a role:")
	case pkg.StepExecutorSelection:
		return e.selectionPrompt(ctx, sess, "Choose an executor:")
	case pkg.StepProjectSelection:
		return e.selectionPrompt(ctx, sess, "Choose a project:")
	case pkg.StepTaskTypeSelection:
		return e.selectionPrompt(ctx, sess, "Choose a task category:")
	case pkg.StepFormatSelection:
		return e.selectionPrompt(ctx, sess, "Choose a format:")
	case pkg.StepTitleInput:
		return pkg.RenderInstruction{
			Text:    fmt.Sprintf("Send a task title (at least %d characters):", MinTitleLength),
			Buttons: e.navButtons(sess, nil),
		}
	case pkg.StepDescriptionInput:
		return pkg.RenderInstruction{
			Text:    "Send a description, or skip this step:",
			Buttons: e.navButtons(sess, []string{BtnSkip}),
		}
	case pkg.StepDeadlineInput:
		return pkg.RenderInstruction{
			Text:    "Choose a deadline, or send a date like 18.09.2025 18:00:",
			Buttons: e.navButtons(sess, optionLabels(e.deadlines.CannedOptions())),
		}
	case pkg.StepPreview:
		return pkg.RenderInstruction{
			Text:    RenderPreview(&sess.Draft, e.roleSpec(sess)),
			Buttons: PreviewButtons(),
		}
	case pkg.StepEditSelection:
		opts, _ := e.optionsFor(ctx, sess, pkg.StepEditSelection)
		return pkg.RenderInstruction{
			Text:    "What do you want to change?",
			Buttons: e.navButtons(sess, optionLabels(opts)),
		}
	case pkg.StepFinalConfirmation:
		return pkg.RenderInstruction{
			Text:    "⚠️ The task was not created. Retry?",
			Buttons: []string{BtnRetry, BtnCancel},
		}
	default:
		return pkg.RenderInstruction{Text: "Something went wrong, please cancel and start over.", Buttons: []string{BtnCancel}}
	}
}

func (e *Engine) selectionPrompt(ctx context.Context, sess *pkg.Session, text string) pkg.RenderInstruction {
	opts, err := e.optionsFor(ctx, sess, sess.Step)
	if err != nil {
		return e.lookupRetry(sess)
	}
	return pkg.RenderInstruction{
		Text:    text,
		Buttons: e.navButtons(sess, optionLabels(opts)),
	}
}

// rePrompt renders the current step again with an explanatory message on top
func (e *Engine) rePrompt(ctx context.Context, sess *pkg.Session, msg string) pkg.RenderInstruction {
	instr := e.prompt(ctx, sess)
	instr.Text = msg + "\n\n" + instr.Text
	return instr
}

func (e *Engine) lookupRetry(sess *pkg.Session) pkg.RenderInstruction {
	return pkg.RenderInstruction{
		Text:    "⚠️ Could not load the options. Send anything to retry.",
		Buttons: e.navButtons(sess, nil),
	}
}

func (e *Engine) navButtons(sess *pkg.Session, options []string) []string {
	buttons := append([]string{}, options...)
	if e.backAllowed(sess) {
		buttons = append(buttons, BtnBack)
	}
	return append(buttons, BtnCancel)
}

func (e *Engine) backAllowed(sess *pkg.Session) bool {
	switch sess.Step {
	case pkg.StepRoleSelection:
		return false
	case pkg.StepExecutorSelection:
		return !sess.RoleFixed
	case pkg.StepFinalConfirmation:
		return false
	}
	return true
}

// ----------------------------------------------------
// ================ Options & plan ================

// optionsFor returns the step's option list, fetching and caching it on
// first use. After an external lookup the session is re-read to confirm it
// still exists at the same step, so a result arriving after a cancel is
// discarded instead of applied.
func (e *Engine) optionsFor(ctx context.Context, sess *pkg.Session, step pkg.StepID) ([]pkg.Option, error) {
	if opts := sess.Options(step); opts != nil {
		return opts, nil
	}

	var opts []pkg.Option
	var err error
	fetched := false

	switch step {
	case pkg.StepRoleSelection:
		opts = e.provider.RoleOptions()
	case pkg.StepExecutorSelection:
		opts, err = e.provider.FetchUsersByRole(ctx, sess.Draft.ExecutorRole)
		fetched = true
	case pkg.StepProjectSelection:
		opts, err = e.provider.FetchProjects(ctx)
		fetched = true
	case pkg.StepTaskTypeSelection:
		opts, err = e.provider.FetchTaskTypes(ctx, sess.Draft.ExecutorRole)
		fetched = true
	case pkg.StepFormatSelection:
		opts, err = e.provider.FetchFormats(ctx)
		fetched = true
	case pkg.StepDeadlineInput:
		opts = e.deadlines.CannedOptions()
	case pkg.StepEditSelection:
		opts = EditOptions(e.requiresFormat(sess))
	default:
		return nil, fmt.Errorf("step %s has no options", step)
	}
	if err != nil {
		return nil, err
	}

	if fetched {
		current, gerr := e.store.Get(ctx, sess.UserID)
		if gerr != nil || current.Step != sess.Step {
			return nil, pkg.ErrSessionNotFound
		}
	}

	sess.SetOptions(step, opts)
	return opts, nil
}

func (e *Engine) plan(sess *pkg.Session) Plan {
	return BuildPlan(e.requiresFormat(sess))
}

func (e *Engine) roleSpec(sess *pkg.Session) *model.RoleSpec {
	return e.vocab.Role(sess.Draft.ExecutorRole)
}

func (e *Engine) requiresFormat(sess *pkg.Session) bool {
	role := e.roleSpec(sess)
	return role != nil && role.RequiresFormat
}

// ----------------------------------------------------
// ================ Input helpers ================

func isControl(text, command string) bool {
	return strings.EqualFold(text, command)
}

func isButton(text, label string) bool {
	return strings.EqualFold(StripDecor(text), StripDecor(label))
}

func optionLabels(options []pkg.Option) []string {
	labels := make([]string, 0, len(options))
	for _, opt := range options {
		labels = append(labels, opt.Label)
	}
	return labels
}
