// Package console is the line-oriented staff and customer front end. Each
// tab pairs a listing.Manager with a detail.Editor; the orders tab adds the
// status gate.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"travelbook/internal/config"
	"travelbook/internal/detail"
	"travelbook/internal/domain"
	"travelbook/internal/dto"
	apperrors "travelbook/internal/errors"
	"travelbook/internal/listing"
	"travelbook/internal/session"
	"travelbook/internal/statusgate"
)

const (
	tabOrders   = "orders"
	tabPlans    = "plans"
	tabComments = "comments"
	tabStats    = "stats"
)

var errQuit = errors.New("quit")

type Console struct {
	backend Backend
	cfg     config.ConsoleConfig
	in      io.Reader
	out     io.Writer
	logger  *zap.Logger

	sess     *session.Session
	tab      string
	panes    map[string]view
	orders   *pane[domain.Order]
	plans    *pane[domain.Plan]
	comments *pane[domain.Comment]
	gate     *statusgate.Gate
}

func New(backend Backend, cfg config.ConsoleConfig, in io.Reader, out io.Writer, logger *zap.Logger) *Console {
	return &Console{
		backend: backend,
		cfg:     cfg,
		in:      in,
		out:     out,
		logger:  logger,
	}
}

// Run reads commands until quit, end of input or ctx is done. Command
// errors are printed and never end the loop.
func (c *Console) Run(ctx context.Context) error {
	defer c.closePanes()

	fmt.Fprintln(c.out, `travelbook console. Type "help" for commands.`)
	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()
	lines, readErr := c.readLines(readCtx)
	for {
		c.showNotice()
		fmt.Fprint(c.out, c.prompt())

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out)
			return ctx.Err()
		case err := <-readErr:
			fmt.Fprintln(c.out)
			return err
		case line = <-lines:
		}

		cmdCtx, cancel := withTimeout(ctx, c.cfg.RequestTimeout)
		err := c.Execute(cmdCtx, line)
		cancel()
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			c.printError(err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// readLines scans input on its own goroutine so a blocked read never delays
// cancellation. readErr yields once, after every line has been delivered.
func (c *Console) readLines(ctx context.Context) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()
	return lines, readErr
}

// Execute runs one command line.
func (c *Console) Execute(ctx context.Context, line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(args[0]), args[1:]

	switch cmd {
	case "help", "?":
		c.help()
		return nil
	case "quit", "exit":
		return errQuit
	case "login":
		if len(args) != 2 {
			return usage("login <account> <password>")
		}
		return c.login(ctx, args[0], args[1])
	case "register":
		if len(args) != 2 {
			return usage("register <account> <password>")
		}
		if err := c.backend.Register(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "registered %s, log in with: login %s <password>\n", args[0], args[0])
		return nil
	}

	if c.sess == nil {
		return apperrors.NewUnauthorizedError("please log in first")
	}

	switch cmd {
	case "logout":
		c.closePanes()
		c.sess = nil
		return c.backend.Logout(ctx)
	case "tab":
		if len(args) != 1 {
			return usage("tab orders|plans|comments|stats")
		}
		return c.switchTab(ctx, args[0])
	case "stats":
		return c.stats(ctx)
	case "gate", "verify", "commit":
		return c.gateCommand(ctx, cmd, args)
	case "book":
		return c.book(ctx, args)
	case "pay", "process", "cancel-order":
		return c.orderAction(ctx, cmd, args)
	case "comment":
		return c.comment(ctx, args)
	case "search":
		return c.search(ctx, args)
	case "new":
		return c.newPlan(args)
	}

	v, err := c.current()
	if err != nil {
		return err
	}

	switch cmd {
	case "load":
		status := domain.StatusAll
		if len(args) > 0 {
			status = args[0]
		}
		n, err := v.load(ctx, status)
		if errors.Is(err, listing.ErrStaleLoad) {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "loaded %d %s\n", n, v.title())
		v.list(c.out)
	case "list":
		v.list(c.out)
	case "find":
		if len(args) != 1 {
			return usage("find <id>")
		}
		return v.find(c.out, args[0])
	case "filter":
		if len(args) != 1 {
			return usage("filter <status|all>")
		}
		v.filter(c.out, args[0])
	case "sort":
		if len(args) < 1 || len(args) > 2 {
			return usage("sort <criterion> [asc|desc]")
		}
		direction := ""
		if len(args) == 2 {
			direction = args[1]
		}
		return v.sort(c.out, args[0], direction)
	case "open":
		if len(args) != 1 {
			return usage("open <id>")
		}
		c.resetGate()
		return v.open(c.out, args[0])
	case "set":
		if len(args) < 2 {
			return usage("set <field> <value>")
		}
		return v.set(c.out, args[0], strings.Join(args[1:], " "))
	case "save":
		return v.save(ctx, c.out)
	case "cancel":
		c.resetGate()
		v.cancel()
	case "back":
		c.resetGate()
		v.back()
	case "delete":
		return v.remove(ctx)
	default:
		return invalid(fmt.Sprintf("unknown command %q, try help", cmd))
	}
	return nil
}

func (c *Console) login(ctx context.Context, account, password string) error {
	if c.sess != nil {
		c.closePanes()
		if err := c.backend.Logout(ctx); err != nil {
			c.logger.Warn("logout before login failed", zap.Error(err))
		}
		c.sess = nil
	}

	sess, err := c.backend.Login(ctx, account, password)
	if err != nil {
		return err
	}
	c.sess = sess
	c.openPanes()
	fmt.Fprintf(c.out, "logged in as %s (%s)\n", sess.Account, sess.Role)
	return nil
}

func (c *Console) openPanes() {
	opts := detail.DefaultOptions()
	if c.cfg.SaveNoticeTTL > 0 {
		opts.SaveNoticeTTL = c.cfg.SaveNoticeTTL
		opts.DeleteNoticeTTL = c.cfg.SaveNoticeTTL
	}
	commentOpts := opts
	commentOpts.Deletable = true
	commentOpts.ReturnAfterSave = true

	c.orders = newPane("order", c.backend.Orders(), opts, orderLayout)
	c.plans = newPane("plan", c.backend.Plans(), opts, planLayout)
	c.comments = newPane("comment", c.backend.Comments(), commentOpts, commentLayout)
	c.panes = map[string]view{
		tabOrders:   c.orders,
		tabPlans:    c.plans,
		tabComments: c.comments,
	}

	gateOpts := statusgate.DefaultOptions()
	if c.cfg.ErrorNoticeTTL > 0 {
		gateOpts.ErrorNoticeTTL = c.cfg.ErrorNoticeTTL
	}
	if c.cfg.GateMaxAttempts > 0 {
		gateOpts.MaxAttempts = c.cfg.GateMaxAttempts
	}
	if c.cfg.GateLockout > 0 {
		gateOpts.Lockout = c.cfg.GateLockout
	}
	c.gate = statusgate.New(c.backend, c.orders.editor, c.orders.board, gateOpts)
	c.tab = tabOrders
}

func (c *Console) closePanes() {
	for _, v := range c.panes {
		v.close()
	}
	c.panes = nil
	c.orders, c.plans, c.comments = nil, nil, nil
	c.gate = nil
	c.tab = ""
}

func (c *Console) current() (view, error) {
	v, ok := c.panes[c.tab]
	if !ok {
		return nil, invalid("this tab has no records, switch with tab orders|plans|comments")
	}
	return v, nil
}

func (c *Console) switchTab(ctx context.Context, name string) error {
	switch name {
	case tabOrders, tabPlans, tabComments:
		c.tab = name
		return nil
	case tabStats:
		c.tab = name
		return c.stats(ctx)
	}
	return usage("tab orders|plans|comments|stats")
}

func (c *Console) gateCommand(ctx context.Context, cmd string, args []string) error {
	if c.tab != tabOrders || c.gate == nil {
		return invalid("status changes are made from the orders tab")
	}

	switch cmd {
	case "gate":
		if err := c.gate.RequestChange(); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "enter the staff secret with: verify <secret>")
	case "verify":
		if len(args) != 1 {
			return usage("verify <secret>")
		}
		if err := c.gate.Verify(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "verified, choose a status with: commit <%s>\n", strings.Join(domain.OrderStatuses(), "|"))
	case "commit":
		if len(args) != 1 {
			return usage("commit <status>")
		}
		saved, err := c.gate.Commit(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "order %s is now %s\n", saved.ID, saved.Status)
	}
	return nil
}

// book places an order for the logged-in account and adds it to the orders
// tab.
func (c *Console) book(ctx context.Context, args []string) error {
	const syntax = "book <planId> <passengers> <phone> <passenger name>"
	if len(args) < 4 {
		return usage(syntax)
	}
	passengers, err := strconv.Atoi(args[1])
	if err != nil {
		return apperrors.NewValidationError(usageText(syntax), apperrors.ValidationDetail{
			Field:   "numOfPassengers",
			Message: "numOfPassengers must be a whole number",
		})
	}

	order, err := c.backend.PlaceOrder(ctx, dto.PlaceOrderRequest{
		PlanID:          args[0],
		NumOfPassengers: passengers,
		PassengerPhone:  args[2],
		PassengerName:   strings.Join(args[3:], " "),
	})
	if err != nil {
		return err
	}
	if err := c.orders.manager.Append(order); err != nil {
		return err
	}
	c.resetGate()
	c.tab = tabOrders
	fmt.Fprintf(c.out, "booked order %s, total %s, pay with: pay %s\n", order.ID, money(order.TotalAmount), order.ID)
	c.orders.show(c.out, order)
	return nil
}

// orderAction runs pay, process or cancel-order on the named order, or on the
// open order when no id is given.
func (c *Console) orderAction(ctx context.Context, cmd string, args []string) error {
	id, err := c.targetOrder(cmd, args)
	if err != nil {
		return err
	}

	var order domain.Order
	switch cmd {
	case "pay":
		order, err = c.backend.PayOrder(ctx, id)
	case "process":
		order, err = c.backend.ProcessOrder(ctx, id)
	case "cancel-order":
		order, err = c.backend.CancelOrder(ctx, id)
	}
	if err != nil {
		return err
	}
	if err := c.orders.editor.Track(order); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "order %s is now %s\n", order.ID, order.Status)
	return nil
}

func (c *Console) targetOrder(cmd string, args []string) (string, error) {
	switch len(args) {
	case 1:
		return args[0], nil
	case 0:
		if c.tab == tabOrders {
			if draft, ok := c.orders.editor.Draft(); ok && draft.ID != "" {
				return draft.ID, nil
			}
		}
	}
	return "", usage(cmd + " [orderId]")
}

// comment reviews a completed order and adds the review to the comments tab.
func (c *Console) comment(ctx context.Context, args []string) error {
	const syntax = "comment <orderId> <rating 1-5> <text>"
	if len(args) < 3 {
		return usage(syntax)
	}
	rating, err := strconv.Atoi(args[1])
	if err != nil {
		return apperrors.NewValidationError(usageText(syntax), apperrors.ValidationDetail{
			Field:   "rating",
			Message: "rating must be a whole number from 1 to 5",
		})
	}

	created, err := c.backend.CreateComment(ctx, dto.CreateCommentRequest{
		OrderID: args[0],
		Rating:  rating,
		Content: strings.Join(args[2:], " "),
	})
	if err != nil {
		return err
	}
	if err := c.comments.manager.Append(created); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "posted comment %s on plan %s\n", created.ID, created.PlanID)
	return nil
}

// search loads the plans tab filtered by departure, destination and status.
func (c *Console) search(ctx context.Context, args []string) error {
	const syntax = "search [dep=<city>] [dest=<city>] [status=<status>]"
	var f domain.Filter
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || value == "" {
			return usage(syntax)
		}
		switch strings.ToLower(key) {
		case "dep", "departure":
			f.Departure = value
		case "dest", "destination":
			f.Destination = value
		case "status":
			f.Status = value
		default:
			return usage(syntax)
		}
	}

	c.resetGate()
	c.tab = tabPlans
	c.plans.back()
	err := c.plans.manager.Load(ctx, f)
	if errors.Is(err, listing.ErrStaleLoad) {
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "found %d plans\n", c.plans.manager.Len())
	c.plans.list(c.out)
	return nil
}

// newPlan opens a blank plan draft. save creates it.
func (c *Console) newPlan(args []string) error {
	if len(args) > 1 || (len(args) == 1 && args[0] != "plan") {
		return usage("new plan")
	}
	if !c.sess.IsStaff() {
		return apperrors.NewForbiddenError("only staff can create plans")
	}

	c.resetGate()
	c.tab = tabPlans
	blank := domain.Plan{Days: 1, Status: domain.PlanStatusActive}
	c.plans.editor.OpenNew(blank, c.backend.CreatePlan)
	c.plans.show(c.out, blank)
	fmt.Fprintln(c.out, "fill in the plan with: set <field> <value>, then save")
	return nil
}

func (c *Console) resetGate() {
	if c.gate != nil {
		c.gate.Cancel()
	}
}

func (c *Console) prompt() string {
	if c.sess == nil {
		return "> "
	}
	p := c.sess.Account + "@" + c.tab
	if v, ok := c.panes[c.tab]; ok && v.mode() == detail.ModeDetail {
		if v.creating() {
			p += "/new"
		} else {
			p += "/detail"
		}
	}
	if c.gate != nil && c.tab == tabOrders {
		if state := c.gate.State(); state != statusgate.StateClosed {
			p += "[" + string(state) + "]"
		}
	}
	return p + "> "
}

func (c *Console) showNotice() {
	v, ok := c.panes[c.tab]
	if !ok {
		return
	}
	if msg, ok := v.notices().Current(); ok {
		fmt.Fprintf(c.out, "[%s] %s\n", msg.Level, msg.Text)
	}
}

func (c *Console) printError(err error) {
	fmt.Fprintf(c.out, "error: %s\n", err)
	if ve, ok := apperrors.IsValidationError(err); ok {
		for _, d := range ve.Details {
			fmt.Fprintf(c.out, "  %s: %s\n", d.Field, d.Message)
		}
	}
	c.logger.Debug("command failed", zap.Error(err))
}

func (c *Console) help() {
	fmt.Fprint(c.out, `commands:
  register <account> <password>
                               create a customer account
  login <account> <password>   start a session
  logout                       end the session
  tab orders|plans|comments|stats
  load [status]                fetch the tab's records (default all)
  list                         show the loaded records
  find <id>                    show one loaded record
  filter <status|all>          show records with a status
  sort <criterion> [asc|desc]  show records ordered by criterion
  open <id>                    edit a record
  set <field> <value>          change a field of the open record
  save | cancel | back         persist or discard the edit
  delete                       delete the open comment
  gate                         ask to change the open order's status
  verify <secret>              answer the staff secret prompt
  commit <status>              apply the new status
  book <planId> <passengers> <phone> <name>
                               place an order for a plan
  pay [orderId]                pay an unpaid order
  cancel-order [orderId]       cancel an unpaid or unused order
  process [orderId]            advance an order (staff)
  comment <orderId> <rating> <text>
                               review a completed order
  search [dep=<city>] [dest=<city>] [status=<status>]
                               find plans
  new plan                     draft a new plan (staff), then set and save
  stats                        show booking statistics
  help | quit
`)
}

func usage(syntax string) error {
	return apperrors.NewValidationError(usageText(syntax))
}

func usageText(syntax string) string {
	return "usage: " + syntax
}

func invalid(msg string) error {
	return apperrors.NewValidationError(msg)
}

// withTimeout bounds one command. A zero d means no deadline.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
