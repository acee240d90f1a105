// Package notification turns domain events into in-app notifications.
// The module subscribes to the event bus and inverts the dependency:
// domain modules publish what happened and never know who gets notified.
package notification

import (
	"context"
	"fmt"

	"sorun_takip_backend/internal/events"
	apphttp "sorun_takip_backend/internal/http"
	notifhandler "sorun_takip_backend/internal/notification/handler"
	"sorun_takip_backend/internal/notification/inapp"
	"sorun_takip_backend/platform/config"
	"sorun_takip_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
)

// AdminDirectory lists the users who should receive platform-wide alerts
// such as new submissions and stale-report reminders.
type AdminDirectory interface {
	ListAdminIDs(ctx context.Context) ([]uuid.UUID, error)
}

type Module struct {
	inAppService *inapp.Service
	inAppHandler *notifhandler.HTTPHandler
	admins       AdminDirectory
	dedupe       *Deduper
	log          *logger.Logger
}

func NewModule(pool *pgxpool.Pool, cfg config.NotificationConfig, admins AdminDirectory, log *logger.Logger, clock clockwork.Clock) *Module {
	repo := inapp.NewRepository(pool)
	svc := inapp.NewService(repo, log)

	return &Module{
		inAppService: svc,
		inAppHandler: notifhandler.NewHTTPHandler(svc),
		admins:       admins,
		dedupe:       NewDeduper(cfg.GetNotificationDedupeTTL(), clock),
		log:          log,
	}
}

func (m *Module) Name() string { return "notification" }

// RegisterRoutes registers notification API routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	if m.inAppHandler == nil {
		return
	}

	notifications := ctx.Protected.Group("/notifications")
	m.inAppHandler.RegisterRoutes(notifications)
}

// InAppService exposes the in-app service for other modules.
func (m *Module) InAppService() *inapp.Service { return m.inAppService }

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.ReportCreated{}.EventName(), m)
	bus.Subscribe(events.ReportAssigned{}.EventName(), m)
	bus.Subscribe(events.ReportStatusChanged{}.EventName(), m)
	bus.Subscribe(events.ReportCommented{}.EventName(), m)
	bus.Subscribe(events.StaleReportDetected{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.ReportCreated:
		return m.handleReportCreated(ctx, e)
	case events.ReportAssigned:
		return m.handleReportAssigned(ctx, e)
	case events.ReportStatusChanged:
		return m.handleReportStatusChanged(ctx, e)
	case events.ReportCommented:
		return m.handleReportCommented(ctx, e)
	case events.StaleReportDetected:
		return m.handleStaleReportDetected(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleReportCreated(ctx context.Context, e events.ReportCreated) error {
	reportID := e.ReportID
	return m.notifyAdmins(ctx, e.EventName(), inapp.SendParams{
		Title:        "Yeni sorun bildirimi",
		Content:      fmt.Sprintf("%s (%s / %s) bölgesinde yeni bir sorun bildirildi: %s", e.District, e.City, categoryLabel(e.Category), e.Title),
		ResourceID:   &reportID,
		ResourceType: "report",
		Category:     "info",
	})
}

func (m *Module) handleReportAssigned(ctx context.Context, e events.ReportAssigned) error {
	reportID := e.ReportID
	return m.notifyUser(ctx, e.WorkerID, e.EventName(), inapp.SendParams{
		UserID:       e.WorkerID,
		Title:        "Size yeni bir sorun atandı",
		Content:      fmt.Sprintf("\"%s\" başlıklı sorun size atandı.", e.Title),
		ResourceID:   &reportID,
		ResourceType: "report",
		Category:     "info",
	})
}

func (m *Module) handleReportStatusChanged(ctx context.Context, e events.ReportStatusChanged) error {
	reportID := e.ReportID
	content := fmt.Sprintf("\"%s\" başlıklı bildiriminizin durumu %s olarak güncellendi.", e.Title, statusLabel(e.ToStatus))
	if e.ResolutionNote != "" {
		content += " Açıklama: " + e.ResolutionNote
	}

	category := "info"
	switch e.ToStatus {
	case "resolved":
		category = "success"
	case "rejected":
		category = "error"
	}

	// Include the target status in the dedupe key so distinct transitions
	// of the same report within the window each reach the reporter.
	key := e.EventName() + ":" + e.ToStatus
	return m.notifyUser(ctx, e.ReporterID, key, inapp.SendParams{
		UserID:       e.ReporterID,
		Title:        "Bildiriminizin durumu değişti",
		Content:      content,
		ResourceID:   &reportID,
		ResourceType: "report",
		Category:     category,
	})
}

func (m *Module) handleReportCommented(ctx context.Context, e events.ReportCommented) error {
	// Reporters commenting on their own report do not need to hear about it.
	if e.AuthorID == e.ReporterID {
		return nil
	}

	reportID := e.ReportID
	return m.notifyUser(ctx, e.ReporterID, e.EventName(), inapp.SendParams{
		UserID:       e.ReporterID,
		Title:        "Bildiriminize yorum yapıldı",
		Content:      fmt.Sprintf("\"%s\" başlıklı bildiriminize yeni bir yorum eklendi.", e.Title),
		ResourceID:   &reportID,
		ResourceType: "report",
		Category:     "info",
	})
}

func (m *Module) handleStaleReportDetected(ctx context.Context, e events.StaleReportDetected) error {
	reportID := e.ReportID
	return m.notifyAdmins(ctx, e.EventName(), inapp.SendParams{
		Title:        "Bekleyen sorun hatırlatması",
		Content:      fmt.Sprintf("\"%s\" başlıklı sorun %d gündür beklemede.", e.Title, e.PendingDays),
		ResourceID:   &reportID,
		ResourceType: "report",
		Category:     "warning",
	})
}

// notifyUser sends a single in-app notification unless an identical one was
// sent recently. eventKey plus the resource id identifies "identical".
func (m *Module) notifyUser(ctx context.Context, userID uuid.UUID, eventKey string, p inapp.SendParams) error {
	key := userID.String() + ":" + eventKey
	if p.ResourceID != nil {
		key += ":" + p.ResourceID.String()
	}
	if !m.dedupe.ShouldSend(key) {
		m.log.Debug("notification suppressed by dedupe window", "key", key)
		return nil
	}

	return m.inAppService.Send(ctx, p)
}

func (m *Module) notifyAdmins(ctx context.Context, eventKey string, p inapp.SendParams) error {
	if m.admins == nil {
		return nil
	}

	adminIDs, err := m.admins.ListAdminIDs(ctx)
	if err != nil {
		m.log.Error("failed to resolve admin recipients", "error", err)
		return err
	}

	for _, adminID := range adminIDs {
		params := p
		params.UserID = adminID
		if err := m.notifyUser(ctx, adminID, eventKey, params); err != nil {
			m.log.Error("failed to notify admin", "error", err, "userId", adminID)
		}
	}
	return nil
}

func statusLabel(status string) string {
	switch status {
	case "pending":
		return "beklemede"
	case "in_progress":
		return "işlemde"
	case "resolved":
		return "çözüldü"
	case "rejected":
		return "reddedildi"
	default:
		return status
	}
}

func categoryLabel(category string) string {
	switch category {
	case "road":
		return "yol"
	case "water":
		return "su"
	case "electricity":
		return "elektrik"
	case "garbage":
		return "çöp"
	case "park":
		return "park"
	case "lighting":
		return "aydınlatma"
	case "transportation":
		return "ulaşım"
	default:
		return "diğer"
	}
}

var _ apphttp.Module = (*Module)(nil)
var _ events.Handler = (*Module)(nil)
