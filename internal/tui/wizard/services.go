package wizard

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/drapery/internal/catalog"
	"github.com/mark3labs/drapery/internal/flow"
	"github.com/mark3labs/drapery/internal/hooks"
	"github.com/mark3labs/drapery/internal/journal"
	"github.com/mark3labs/drapery/internal/logger"
	"github.com/mark3labs/drapery/internal/metrics"
	"github.com/mark3labs/drapery/internal/order"
	"github.com/mark3labs/drapery/internal/preview"
	"github.com/mark3labs/drapery/internal/pricing"
)

const journalTimeout = 5 * time.Second

// Services are the collaborators the wizard drives. Everything except
// LoadCatalog is optional.
type Services struct {
	LoadCatalog func() (*catalog.Catalog, error)
	Browse      catalog.Query // initial catalog sort and category
	AR          *preview.Session
	Journal     *journal.Journal
	Metrics     *metrics.Registry
	Hooks       *hooks.Config
	WorkDir     string
	CaptureDir  string
	Placer      order.Placer
}

func (s Services) session() string {
	if s.Journal == nil {
		return ""
	}
	return s.Journal.Session()
}

// recordTransition appends a step change to the journal.
func (s Services) recordTransition(t flow.Transition) tea.Cmd {
	if s.Journal == nil {
		return nil
	}
	j := s.Journal
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), journalTimeout)
		defer cancel()
		if err := j.RecordTransition(ctx, t); err != nil {
			logger.Warn("Failed to journal transition %s: %v", t.Event, err)
		}
		return nil
	}
}

// orderPlaced journals the order and runs the order_placed hooks. Failures
// are logged; the order stands.
func (s Services) orderPlaced(o order.Order) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), journalTimeout)
		defer cancel()
		if s.Journal != nil {
			if err := s.Journal.RecordOrder(ctx, o); err != nil {
				logger.Warn("Failed to journal order %s: %v", o.Number, err)
			}
		}

		if s.Hooks == nil || len(s.Hooks.Hooks.OrderPlaced) == 0 {
			return HooksRanMsg{}
		}
		vars := hooks.Variables{
			Order:   o.Number,
			Fabric:  o.Item.Name,
			Total:   pricing.Amount(o.Breakdown.Total),
			Session: s.session(),
		}
		out, err := hooks.ExecuteAll(context.Background(), s.Hooks.Hooks.OrderPlaced, s.WorkDir, vars)
		if err != nil {
			logger.Warn("order_placed hooks: %v", err)
		}
		return HooksRanMsg{Output: out}
	}
}

// captureSaved runs the capture_saved hooks.
func (s Services) captureSaved(msg CaptureSavedMsg) tea.Cmd {
	if s.Hooks == nil || len(s.Hooks.Hooks.CaptureSaved) == 0 {
		return nil
	}
	return func() tea.Msg {
		vars := hooks.Variables{
			Fabric:  msg.Item.Name,
			Session: s.session(),
			Path:    msg.Path,
		}
		if _, err := hooks.ExecuteAll(context.Background(), s.Hooks.Hooks.CaptureSaved, s.WorkDir, vars); err != nil {
			logger.Warn("capture_saved hooks: %v", err)
		}
		return nil
	}
}
