package fleet

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/five82/flotilla/internal/orchestrator"
)

// Act issues a lifecycle command for one container. It fails without sending
// anything when the action is unknown, the container is not in the fleet or
// the container already has a command in flight (*ConflictError).
func (e *Engine) Act(id string, action orchestrator.Action) (tea.Cmd, error) {
	if e.closed {
		return nil, ErrClosed
	}
	if !action.Valid() {
		return nil, fmt.Errorf("unknown action %q", action)
	}
	if _, ok := e.dash.Container(id); !ok {
		return nil, fmt.Errorf("container %s is not in the fleet", orchestrator.ShortID(id))
	}
	log := e.log.WithFields(logrus.Fields{"container": orchestrator.ShortID(id), "action": action})
	if pending, busy := e.dash.Pending(id); busy {
		log.WithField("pending", pending).Info("command rejected, container busy")
		return nil, &ConflictError{ID: id, Pending: pending, Requested: action}
	}

	e.dash.setPending(id, action)
	log.Info("dispatching command")
	ctx, api := e.detached, e.api
	return func() tea.Msg {
		return ActionResultMsg{ID: id, Action: action, Err: execute(ctx, api, id, action)}
	}, nil
}

func execute(ctx context.Context, api orchestrator.API, id string, action orchestrator.Action) error {
	if action == orchestrator.ActionDelete {
		return api.Remove(ctx, id)
	}
	return api.Control(ctx, id, action)
}

func (e *Engine) handleActionResult(msg ActionResultMsg) tea.Cmd {
	e.dash.clearPending(msg.ID)
	short := e.displayID(msg.ID)
	log := e.log.WithFields(logrus.Fields{"container": short, "action": msg.Action})
	if msg.Err != nil {
		log.WithError(msg.Err).Warn("command failed")
		e.setNotice(fmt.Sprintf("Failed to %s container %s: %v", msg.Action, short, msg.Err), true)
		if orchestrator.IsNotFound(msg.Err) {
			// Gone from the backend; drop it from the list without waiting a full interval.
			return e.settle()
		}
		return nil
	}
	log.Info("command completed")
	e.setNotice(fmt.Sprintf("Container %s %s", short, msg.Action.PastTense()), false)
	return e.settle()
}

// SetBulkAction chooses the action BulkAct applies. An empty action clears it.
func (e *Engine) SetBulkAction(action orchestrator.Action) error {
	if action != "" && !action.Valid() {
		return fmt.Errorf("unknown action %q", action)
	}
	e.bulkAction = action
	return nil
}

// BulkAction returns the chosen bulk action, empty when unset.
func (e *Engine) BulkAction() orchestrator.Action {
	return e.bulkAction
}

// BulkAct applies the bulk action to every selected container concurrently and
// reports once all of them have completed. Members with a command already in
// flight are skipped. It returns nil when the selection or action is empty.
func (e *Engine) BulkAct() tea.Cmd {
	action := e.bulkAction
	ids := e.dash.Selection()
	if e.closed || action == "" || len(ids) == 0 {
		return nil
	}

	targets := make([]string, 0, len(ids))
	skipped := 0
	for _, id := range ids {
		if _, busy := e.dash.Pending(id); busy {
			skipped++
			continue
		}
		e.dash.setPending(id, action)
		targets = append(targets, id)
	}
	e.log.WithFields(logrus.Fields{
		"action":    action,
		"attempted": len(targets),
		"skipped":   skipped,
	}).Info("dispatching bulk command")

	ctx, api := e.detached, e.api
	return func() tea.Msg {
		results := make([]ActionResultMsg, len(targets))
		var g errgroup.Group
		for i, id := range targets {
			i, id := i, id
			g.Go(func() error {
				results[i] = ActionResultMsg{ID: id, Action: action, Err: execute(ctx, api, id, action)}
				return nil
			})
		}
		_ = g.Wait()
		return BulkResultMsg{Action: action, Results: results, Skipped: skipped}
	}
}

func (e *Engine) handleBulkResult(msg BulkResultMsg) tea.Cmd {
	for _, r := range msg.Results {
		e.dash.clearPending(r.ID)
		if r.Err != nil {
			e.log.WithFields(logrus.Fields{
				"container": e.displayID(r.ID),
				"action":    r.Action,
			}).WithError(r.Err).Warn("bulk member failed")
		}
	}
	e.dash.ClearSelection()
	e.bulkAction = ""

	failed := msg.Failed()
	e.log.WithFields(logrus.Fields{
		"action":    msg.Action,
		"attempted": len(msg.Results),
		"failed":    failed,
		"skipped":   msg.Skipped,
	}).Info("bulk command completed")

	text := fmt.Sprintf("Bulk %s completed for %d containers", msg.Action, len(msg.Results))
	if msg.Skipped > 0 {
		text += fmt.Sprintf(" (%d skipped, already busy)", msg.Skipped)
	}
	e.setNotice(text, len(msg.Results) > 0 && failed == len(msg.Results))
	return e.settle()
}

// Launching reports whether a launch is waiting for the backend.
func (e *Engine) Launching() bool {
	return e.launching
}

// Launch creates a container from templateID. An empty id launches the first
// template of the catalog.
func (e *Engine) Launch(templateID string) (tea.Cmd, error) {
	if e.closed {
		return nil, ErrClosed
	}
	if e.launching {
		return nil, ErrLaunchInFlight
	}
	templateID = strings.TrimSpace(templateID)
	if templateID == "" && len(e.templates) > 0 {
		templateID = e.templates[0].ID
	}
	if templateID == "" {
		return nil, fmt.Errorf("no template selected")
	}

	e.launching = true
	e.log.WithField("template", templateID).Info("launching container")
	ctx, api := e.detached, e.api
	return func() tea.Msg {
		result, err := api.Launch(ctx, templateID)
		return LaunchResultMsg{Template: templateID, Result: result, Err: err}
	}, nil
}

func (e *Engine) handleLaunchResult(msg LaunchResultMsg) tea.Cmd {
	e.launching = false
	log := e.log.WithField("template", msg.Template)
	if msg.Err != nil {
		log.WithError(msg.Err).Warn("launch failed")
		e.setNotice(fmt.Sprintf("Failed to launch container: %v", msg.Err), true)
		return nil
	}
	log.WithField("container", orchestrator.ShortID(msg.Result.ContainerID)).Info("container launched")
	text := strings.TrimSpace(msg.Result.Message)
	if text == "" {
		text = fmt.Sprintf("Launched %s", msg.Template)
	}
	if msg.Result.URL != "" {
		text += " at " + msg.Result.URL
	}
	e.setNotice(text, false)
	return e.settle()
}
