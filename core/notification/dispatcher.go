package notification

import (
	"context"
	"fmt"
	"net/mail"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/core/user"
)

// Notifier hands notifications off for best-effort delivery.
// Implementations never report failures to the caller.
type Notifier interface {
	Notify(ctx context.Context, notes ...NewNotification)
}

// UserFinder resolves recipients for notification emails.
type UserFinder interface {
	GetMany(ctx context.Context, ids ...string) ([]user.User, error)
}

type DispatcherOptions struct {
	Queue      Queue
	Repo       Repository
	Logger     core.Logger
	Workers    int
	SendEmails bool
	Users      UserFinder        // required when SendEmails
	MailSvc    core.EmailService // required when SendEmails
}

// Dispatcher queues notification batches and stores them from a pool of workers,
// one multi-row insert per batch.
type Dispatcher struct {
	opts   DispatcherOptions
	wg     sync.WaitGroup
	cancel context.CancelFunc
}

var _ Notifier = (*Dispatcher)(nil)

func NewDispatcher(opts DispatcherOptions) *Dispatcher {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Users == nil || opts.MailSvc == nil {
		opts.SendEmails = false
	}
	return &Dispatcher{opts: opts}
}

// Notify enqueues notes as one batch. It never blocks on delivery.
func (d *Dispatcher) Notify(ctx context.Context, notes ...NewNotification) {
	if len(notes) == 0 {
		return
	}
	// the request may be over before the push completes
	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	batch := Batch{Notifications: notes, QueuedAt: time.Now().UTC()}
	if err := d.opts.Queue.Push(pushCtx, batch); err != nil {
		droppedTotal.Add(float64(len(notes)))
		d.opts.Logger.Warn(fmt.Sprintf("dropping %d notification(s): %v", len(notes), err), err)
		return
	}
	queuedTotal.Add(float64(len(notes)))
}

// Start launches the workers. They run until Stop is called.
func (d *Dispatcher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel

	d.opts.Logger.Info(fmt.Sprintf("starting notification dispatcher : workers %d", d.opts.Workers))
	for i := 0; i < d.opts.Workers; i++ {
		d.wg.Add(1)
		go d.runLoop(ctx, i+1)
	}
}

// Stop closes the queue and waits for the workers to drain it until ctx is done.
func (d *Dispatcher) Stop(ctx context.Context) error {
	if err := d.opts.Queue.Close(); err != nil {
		d.opts.Logger.Error(fmt.Sprintf("closing notification queue: %v", err), err)
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}
	if d.cancel != nil {
		d.cancel()
	}
	<-done
	return ctx.Err()
}

func (d *Dispatcher) runLoop(ctx context.Context, workerID int) {
	defer d.wg.Done()

	for {
		batch, err := d.opts.Queue.Pop(ctx)
		if err != nil {
			if errors.Is(err, ErrQueueClosed) || ctx.Err() != nil {
				d.opts.Logger.Debug(fmt.Sprintf("notification worker %d stopped", workerID))
				return
			}
			d.opts.Logger.Warn(fmt.Sprintf("notification worker %d: pop failed: %v", workerID, err), err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		d.deliver(ctx, batch)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, batch Batch) {
	defer func() {
		if r := recover(); r != nil {
			failedTotal.Add(float64(len(batch.Notifications)))
			d.opts.Logger.Error(fmt.Sprintf("notification delivery panic: %v", r))
		}
	}()

	notes := store(ctx, d.opts.Repo, d.opts.Logger, batch)
	if d.opts.SendEmails && len(notes) > 0 {
		d.email(ctx, notes)
	}
}

// store saves a batch and returns the stored notifications.
func store(ctx context.Context, repo Repository, logger core.Logger, batch Batch) []Notification {
	now := time.Now().UTC()
	notes := make([]Notification, 0, len(batch.Notifications))
	for _, nn := range batch.Notifications {
		notes = append(notes, build(nn, now))
	}
	if err := repo.CreateNotifications(ctx, notes...); err != nil {
		failedTotal.Add(float64(len(notes)))
		logger.Error(fmt.Sprintf("storing %d notification(s): %v", len(notes), err), err)
		return nil
	}
	deliveredTotal.Add(float64(len(notes)))
	return notes
}

func (d *Dispatcher) email(ctx context.Context, notes []Notification) {
	ids := make([]string, 0, len(notes))
	for _, n := range notes {
		ids = append(ids, n.UserID)
	}
	users, err := d.opts.Users.GetMany(ctx, ids...)
	if err != nil {
		d.opts.Logger.Error(fmt.Sprintf("finding notification recipients: %v", err), err)
		return
	}
	byID := make(map[string]user.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	messages := make([]*core.EmailMessage, 0, len(notes))
	for _, n := range notes {
		usr, ok := byID[n.UserID]
		if !ok || usr.Email == "" {
			continue
		}
		messages = append(messages, &core.EmailMessage{
			To:           []mail.Address{{Name: usr.FullName, Address: usr.Email}},
			Subject:      n.Title,
			TemplateName: "notification",
			TemplateData: map[string]string{"Name": usr.FullName, "Title": n.Title, "Message": n.Message},
		})
	}
	d.opts.MailSvc.SendMessages(messages...)
}

// SyncNotifier stores notifications inline, without a queue. Used in tests and tooling.
type SyncNotifier struct {
	repo   Repository
	logger core.Logger
}

var _ Notifier = (*SyncNotifier)(nil)

func NewSyncNotifier(repo Repository, logger core.Logger) *SyncNotifier {
	return &SyncNotifier{repo: repo, logger: logger}
}

func (n *SyncNotifier) Notify(ctx context.Context, notes ...NewNotification) {
	if len(notes) == 0 {
		return
	}
	store(ctx, n.repo, n.logger, Batch{Notifications: notes, QueuedAt: time.Now().UTC()})
}
