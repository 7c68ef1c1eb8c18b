// Package browse is a line-oriented terminal version of the dashboard.
package browse

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"rooming-data/internal/debounce"
	"rooming-data/internal/domain"
	"rooming-data/internal/models"
	"rooming-data/internal/querystate"
	"rooming-data/internal/service"
	"rooming-data/internal/viewmode"

	"go.uber.org/zap"
)

const helpText = `commands:
  search <text>       set the search text (debounced); "search" alone clears it
  status <name>       toggle a status filter
  statuses <a,b,...>  replace the status filter
  clear               clear search and status filters
  toggle <eventId>    cycle a group: expanded -> oneRow -> collapsed
  all <mode>          set every group to expanded, oneRow or collapsed
  show                redraw
  url                 print the shareable query string
  reload              reload the catalog
  help                this text
  quit                exit`

// Browser drives the dashboard from text commands. Every query change
// redraws the view.
type Browser struct {
	svc    service.RoomingListService
	store  *querystate.Store
	modes  *viewmode.Modes
	search *debounce.Debouncer
	logger *zap.Logger

	mu  sync.Mutex
	out io.Writer
}

func New(svc service.RoomingListService, initial querystate.State, modes *viewmode.Modes, searchDelay time.Duration, out io.Writer, logger *zap.Logger) *Browser {
	if modes == nil {
		modes = viewmode.New()
	}
	return &Browser{
		svc:    svc,
		store:  querystate.NewStore(initial),
		modes:  modes,
		search: debounce.New(searchDelay),
		logger: logger,
		out:    out,
	}
}

// State returns the current query state.
func (b *Browser) State() querystate.State { return b.store.State() }

// Run reads commands from in until quit, EOF or ctx is done. A pending
// search is applied before Run returns.
func (b *Browser) Run(ctx context.Context, in io.Reader) error {
	unsubscribe := b.store.Subscribe(func(querystate.State) {
		if err := b.Render(ctx); err != nil {
			b.logger.Warn("Render failed", zap.Error(err))
		}
	})
	defer unsubscribe()
	defer b.search.Stop()

	if err := b.Render(ctx); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		quit, err := b.Exec(ctx, scanner.Text())
		if err != nil {
			b.printf("error: %v\n", err)
		}
		if quit {
			break
		}
	}
	b.search.Flush()
	return scanner.Err()
}

// Exec runs one command line.
func (b *Browser) Exec(ctx context.Context, line string) (quit bool, err error) {
	cmd, arg := splitCommand(line)
	switch cmd {
	case "":
		return false, nil
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		b.printf("%s\n", helpText)
	case "search", "/":
		b.search.Schedule(func() {
			b.store.Update(func(s querystate.State) querystate.State { return s.WithSearch(arg) })
		})
	case "status":
		if arg == "" {
			return false, fmt.Errorf("status needs a name")
		}
		b.store.Update(func(s querystate.State) querystate.State { return s.ToggleStatus(arg) })
	case "statuses":
		b.store.Update(func(s querystate.State) querystate.State { return s.WithStatuses(strings.Split(arg, ",")...) })
	case "clear":
		b.search.Cancel()
		b.store.Update(func(s querystate.State) querystate.State { return s.Clear() })
	case "toggle":
		if arg == "" {
			return false, fmt.Errorf("toggle needs an event id")
		}
		b.modes.Toggle(domain.ID(arg))
		return false, b.Render(ctx)
	case "all":
		mode, err := viewmode.Parse(arg)
		if err != nil {
			return false, err
		}
		ids, err := b.groupIDs(ctx)
		if err != nil {
			return false, err
		}
		b.modes.SetAll(mode, ids...)
		return false, b.Render(ctx)
	case "show":
		return false, b.Render(ctx)
	case "url":
		b.printf("?%s\n", b.queryString())
	case "reload":
		if _, err := b.svc.Reload(ctx); err != nil {
			return false, err
		}
		return false, b.Render(ctx)
	default:
		return false, fmt.Errorf("unknown command %q (try help)", cmd)
	}
	return false, nil
}

func (b *Browser) groupIDs(ctx context.Context) ([]domain.ID, error) {
	resp, err := b.svc.ListRoomingLists(ctx, service.ListRoomingListsRequest{Query: b.store.State()})
	if err != nil {
		return nil, err
	}
	ids := make([]domain.ID, 0, len(resp.Groups))
	for _, g := range resp.Groups {
		ids = append(ids, g.EventID)
	}
	return ids, nil
}

func (b *Browser) queryString() string {
	v := b.store.State().Values()
	b.modes.Apply(v)
	return v.Encode()
}

// Render prints the current view.
func (b *Browser) Render(ctx context.Context) error {
	q := b.store.State()
	resp, err := b.svc.ListRoomingLists(ctx, service.ListRoomingListsRequest{Query: q})
	if err != nil {
		b.printf("Rooming lists could not be loaded: %v\n", err)
		return err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n== Rooming lists  search=%q statuses=%v  %s\n", q.Search(), q.Statuses(), models.Summary(resp.Matched, resp.Total))
	fmt.Fprintf(&sb, "   statuses: %s\n", strings.Join(resp.Statuses, ", "))

	if len(resp.Groups) == 0 {
		sb.WriteString("No events found matching your criteria.\n")
		b.printf("%s", sb.String())
		return nil
	}

	for _, g := range models.NewEventGroupModels(resp.Groups) {
		b.modes.Observe(g.EventID)
		mode := b.modes.Get(g.EventID)
		fmt.Fprintf(&sb, "[%s] %s (%s) [%s]\n", g.Color, g.EventName, g.EventID, mode)
		switch mode {
		case viewmode.Collapsed:
			fmt.Fprintf(&sb, "   (%d hidden)\n", len(g.Items))
		case viewmode.OneRow:
			names := make([]string, 0, len(g.Items))
			for _, c := range g.Items {
				names = append(names, c.RFPName)
			}
			fmt.Fprintf(&sb, "   %s\n", strings.Join(names, " | "))
		default:
			for _, c := range g.Items {
				sb.WriteString(cardLine(c))
			}
		}
	}
	b.printf("%s", sb.String())
	return nil
}

func cardLine(c models.RoomingListCard) string {
	parts := []string{c.RFPName, c.AgreementType, c.Status}
	if c.CutOffMonth != "" {
		parts = append(parts, fmt.Sprintf("cut-off %s %d", c.CutOffMonth, c.CutOffDay))
	}
	if c.StayRange != "" {
		parts = append(parts, c.StayRange)
	}
	parts = append(parts, fmt.Sprintf("%d bookings", c.BookingCount))
	return "   - " + strings.Join(parts, " | ") + "\n"
}

func (b *Browser) printf(format string, args ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fmt.Fprintf(b.out, format, args...)
}

func splitCommand(line string) (cmd, arg string) {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "/") {
		return "/", strings.TrimSpace(line[1:])
	}
	cmd, arg, _ = strings.Cut(line, " ")
	return strings.ToLower(cmd), strings.TrimSpace(arg)
}
