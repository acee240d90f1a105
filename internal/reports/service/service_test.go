package service

import (
	"context"
	"errors"
	"testing"
	"time"

	auth "sorun_takip_backend/internal/auth/domain"
	"sorun_takip_backend/internal/events"
	"sorun_takip_backend/internal/geocode"
	"sorun_takip_backend/internal/reports/domain"
	"sorun_takip_backend/internal/reports/repository"
	"sorun_takip_backend/platform/logger"
	"sorun_takip_backend/platform/metrics"

	"github.com/google/uuid"
)

type fakeReportRepo struct {
	reports     map[uuid.UUID]repository.Report
	comments    []repository.Comment
	attachments map[uuid.UUID]repository.Attachment
	lastList    repository.ListParams
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{
		reports:     make(map[uuid.UUID]repository.Report),
		attachments: make(map[uuid.UUID]repository.Attachment),
	}
}

func (f *fakeReportRepo) Create(_ context.Context, params repository.CreateReportParams) (repository.Report, error) {
	now := time.Now()
	rep := repository.Report{
		ID:           uuid.New(),
		ReporterID:   params.ReporterID,
		Title:        params.Title,
		Description:  params.Description,
		Category:     params.Category,
		Severity:     params.Severity,
		Status:       domain.StatusPending,
		City:         params.City,
		District:     params.District,
		Address:      params.Address,
		LocationNote: params.LocationNote,
		Latitude:     params.Latitude,
		Longitude:    params.Longitude,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.reports[rep.ID] = rep
	return rep, nil
}

func (f *fakeReportRepo) GetByID(_ context.Context, reportID uuid.UUID) (repository.Report, error) {
	rep, ok := f.reports[reportID]
	if !ok {
		return repository.Report{}, repository.ErrNotFound
	}
	return rep, nil
}

func (f *fakeReportRepo) Update(_ context.Context, reportID uuid.UUID, params repository.UpdateReportParams) (repository.Report, error) {
	rep, ok := f.reports[reportID]
	if !ok {
		return repository.Report{}, repository.ErrNotFound
	}
	rep.Title = params.Title
	rep.Description = params.Description
	rep.Category = params.Category
	rep.Severity = params.Severity
	f.reports[reportID] = rep
	return rep, nil
}

func (f *fakeReportRepo) UpdateStatus(_ context.Context, reportID uuid.UUID, status string, resolutionNote *string) (repository.Report, error) {
	rep, ok := f.reports[reportID]
	if !ok {
		return repository.Report{}, repository.ErrNotFound
	}
	rep.Status = status
	if resolutionNote != nil {
		rep.ResolutionNote = resolutionNote
	}
	f.reports[reportID] = rep
	return rep, nil
}

func (f *fakeReportRepo) AssignWorker(_ context.Context, reportID uuid.UUID, workerID uuid.UUID) (repository.Report, error) {
	rep, ok := f.reports[reportID]
	if !ok {
		return repository.Report{}, repository.ErrNotFound
	}
	rep.AssignedWorkerID = &workerID
	f.reports[reportID] = rep
	return rep, nil
}

func (f *fakeReportRepo) UpdateLocation(_ context.Context, reportID uuid.UUID, city, district, address string) error {
	rep, ok := f.reports[reportID]
	if !ok {
		return repository.ErrNotFound
	}
	rep.City = city
	rep.District = district
	rep.Address = address
	f.reports[reportID] = rep
	return nil
}

func (f *fakeReportRepo) List(_ context.Context, params repository.ListParams) ([]repository.Report, int, error) {
	f.lastList = params
	out := make([]repository.Report, 0)
	for _, rep := range f.reports {
		out = append(out, rep)
	}
	return out, len(out), nil
}

func (f *fakeReportRepo) ListUnlocated(_ context.Context, limit int) ([]repository.Report, error) {
	return nil, nil
}

func (f *fakeReportRepo) ListStalePending(_ context.Context, cutoff time.Time, limit int) ([]repository.Report, error) {
	return nil, nil
}

func (f *fakeReportRepo) AddComment(_ context.Context, reportID, authorID uuid.UUID, authorRole, body string) (repository.Comment, error) {
	c := repository.Comment{
		ID:         uuid.New(),
		ReportID:   reportID,
		AuthorID:   authorID,
		AuthorRole: authorRole,
		Body:       body,
		CreatedAt:  time.Now(),
	}
	f.comments = append(f.comments, c)
	return c, nil
}

func (f *fakeReportRepo) ListComments(_ context.Context, reportID uuid.UUID) ([]repository.Comment, error) {
	out := make([]repository.Comment, 0)
	for _, c := range f.comments {
		if c.ReportID == reportID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeReportRepo) CreateAttachment(_ context.Context, params repository.CreateAttachmentParams) (repository.Attachment, error) {
	att := repository.Attachment{
		ID:          uuid.New(),
		ReportID:    params.ReportID,
		FileKey:     params.FileKey,
		FileName:    params.FileName,
		ContentType: params.ContentType,
		SizeBytes:   params.SizeBytes,
		UploadedBy:  params.UploadedBy,
		CreatedAt:   time.Now(),
	}
	f.attachments[att.ID] = att
	return att, nil
}

func (f *fakeReportRepo) GetAttachmentByID(_ context.Context, id uuid.UUID) (repository.Attachment, error) {
	att, ok := f.attachments[id]
	if !ok {
		return repository.Attachment{}, repository.ErrAttachmentNotFound
	}
	return att, nil
}

func (f *fakeReportRepo) ListAttachments(_ context.Context, reportID uuid.UUID) ([]repository.Attachment, error) {
	out := make([]repository.Attachment, 0)
	for _, att := range f.attachments {
		if att.ReportID == reportID {
			out = append(out, att)
		}
	}
	return out, nil
}

func (f *fakeReportRepo) DeleteAttachment(_ context.Context, id uuid.UUID) error {
	if _, ok := f.attachments[id]; !ok {
		return repository.ErrAttachmentNotFound
	}
	delete(f.attachments, id)
	return nil
}

func (f *fakeReportRepo) GetSummary(_ context.Context) (repository.Summary, error) {
	return repository.Summary{Total: len(f.reports)}, nil
}

type fakeResolver struct {
	merged geocode.MergedAddress
	err    error
	calls  int
}

func (f *fakeResolver) Resolve(_ context.Context, lat, lon float64) (geocode.MergedAddress, error) {
	f.calls++
	return f.merged, f.err
}

type fakeDirectory struct {
	users map[uuid.UUID]UserInfo
}

func (f *fakeDirectory) GetUser(_ context.Context, userID uuid.UUID) (UserInfo, error) {
	user, ok := f.users[userID]
	if !ok {
		return UserInfo{}, errors.New("user not found")
	}
	return user, nil
}

func newTestService(repo repository.ReportRepository, resolver geocode.AddressResolver, directory UserDirectory) *Service {
	log := logger.New("test")
	return New(repo, resolver, directory, nil, "report-photos", events.NewInMemoryBus(log), log, metrics.NewForTesting())
}

func citizenActor(id uuid.UUID) Actor {
	return Actor{UserID: id, Roles: []string{auth.RoleCitizen}}
}

func workerActor(id uuid.UUID) Actor {
	return Actor{UserID: id, Roles: []string{auth.RoleWorker}}
}

func adminActor(id uuid.UUID) Actor {
	return Actor{UserID: id, Roles: []string{auth.RoleAdmin}}
}

func validCreateParams(reporterID uuid.UUID) CreateParams {
	return CreateParams{
		ReporterID:  reporterID,
		Title:       "Kaldırımda büyük çukur",
		Description: "Bahariye Caddesi üzerindeki kaldırımda derin bir çukur oluştu.",
		Category:    domain.CategoryRoad,
		Severity:    domain.SeverityHigh,
		City:        "İstanbul",
		District:    "Kadıköy",
		Address:     "Bahariye Caddesi 12, Kadıköy, İstanbul",
		Latitude:    40.9901,
		Longitude:   29.0304,
	}
}

func TestCreateStoresPendingReport(t *testing.T) {
	repo := newFakeReportRepo()
	svc := newTestService(repo, nil, nil)
	reporterID := uuid.New()

	result, err := svc.Create(context.Background(), validCreateParams(reporterID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if result.Report.Status != domain.StatusPending {
		t.Errorf("status = %q, want pending", result.Report.Status)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

func TestCreateFillsOnlyEmptyLocationFields(t *testing.T) {
	repo := newFakeReportRepo()
	resolver := &fakeResolver{merged: geocode.MergedAddress{
		FullAddress: "Moda Caddesi 5, Kadıköy, İstanbul",
		District:    "Kadıköy",
		City:        "İstanbul",
	}}
	svc := newTestService(repo, resolver, nil)

	params := validCreateParams(uuid.New())
	params.City = ""
	params.District = ""
	params.Address = "Kullanıcının girdiği adres"

	result, err := svc.Create(context.Background(), params)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resolver.calls != 1 {
		t.Fatalf("resolver calls = %d, want 1", resolver.calls)
	}
	if result.Report.City != "İstanbul" || result.Report.District != "Kadıköy" {
		t.Errorf("geocode fill failed: city=%q district=%q", result.Report.City, result.Report.District)
	}
	// User-entered address is never overwritten.
	if result.Report.Address != "Kullanıcının girdiği adres" {
		t.Errorf("address overwritten: %q", result.Report.Address)
	}
}

func TestCreateSkipsResolverWhenAllFieldsPresent(t *testing.T) {
	resolver := &fakeResolver{}
	svc := newTestService(newFakeReportRepo(), resolver, nil)

	if _, err := svc.Create(context.Background(), validCreateParams(uuid.New())); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resolver.calls != 0 {
		t.Errorf("resolver called %d times for a fully addressed report", resolver.calls)
	}
}

func TestCreateResolverFailureIsSoft(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("all providers down")}
	svc := newTestService(newFakeReportRepo(), resolver, nil)

	// City and district typed by the user, address left for the geocoder.
	params := validCreateParams(uuid.New())
	params.Address = ""

	result, err := svc.Create(context.Background(), params)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if result.Report.Address != "Kadıköy, İstanbul" {
		t.Errorf("fallback address = %q", result.Report.Address)
	}
	if len(result.Warnings) != 2 {
		t.Errorf("warnings = %v, want lookup failure and fallback notices", result.Warnings)
	}

	// City missing and unresolvable is a hard error.
	params.City = ""
	if _, err := svc.Create(context.Background(), params); !errors.Is(err, ErrUnknownProvince) {
		t.Fatalf("err = %v, want ErrUnknownProvince", err)
	}
}

func TestCreateCorrectsCityAndDistrictSpelling(t *testing.T) {
	svc := newTestService(newFakeReportRepo(), nil, nil)

	params := validCreateParams(uuid.New())
	params.City = "istanbul"
	params.District = "Kadikoy"

	result, err := svc.Create(context.Background(), params)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if result.Report.City != "İstanbul" {
		t.Errorf("city = %q, want canonical İstanbul", result.Report.City)
	}
	if result.Report.District != "Kadıköy" {
		t.Errorf("district = %q, want canonical Kadıköy", result.Report.District)
	}
}

func TestCreateRejectsDistrictOutsideProvince(t *testing.T) {
	svc := newTestService(newFakeReportRepo(), nil, nil)

	params := validCreateParams(uuid.New())
	params.District = "Çankaya" // an Ankara district

	if _, err := svc.Create(context.Background(), params); !errors.Is(err, ErrUnknownDistrict) {
		t.Fatalf("err = %v, want ErrUnknownDistrict", err)
	}
}

func TestCreateRejectsUnknownEnums(t *testing.T) {
	svc := newTestService(newFakeReportRepo(), nil, nil)

	params := validCreateParams(uuid.New())
	params.Category = "potholes"
	if _, err := svc.Create(context.Background(), params); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("err = %v, want ErrUnknownCategory", err)
	}

	params = validCreateParams(uuid.New())
	params.Severity = "urgent"
	if _, err := svc.Create(context.Background(), params); !errors.Is(err, ErrUnknownSeverity) {
		t.Fatalf("err = %v, want ErrUnknownSeverity", err)
	}
}

func TestTransitionRoleRules(t *testing.T) {
	repo := newFakeReportRepo()
	svc := newTestService(repo, nil, nil)

	reporterID := uuid.New()
	created, err := svc.Create(context.Background(), validCreateParams(reporterID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	reportID := created.Report.ID

	// Citizens cannot transition, not even their own report.
	if _, err := svc.Transition(context.Background(), citizenActor(reporterID), reportID, domain.StatusInProgress, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("citizen transition err = %v, want ErrForbidden", err)
	}

	// Workers cannot transition reports not assigned to them.
	strangerWorker := workerActor(uuid.New())
	if _, err := svc.Transition(context.Background(), strangerWorker, reportID, domain.StatusInProgress, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("unassigned worker err = %v, want ErrForbidden", err)
	}

	// Assigned workers can.
	workerID := uuid.New()
	if _, err := repo.AssignWorker(context.Background(), reportID, workerID); err != nil {
		t.Fatalf("AssignWorker: %v", err)
	}
	updated, err := svc.Transition(context.Background(), workerActor(workerID), reportID, domain.StatusInProgress, "")
	if err != nil {
		t.Fatalf("assigned worker transition: %v", err)
	}
	if updated.Status != domain.StatusInProgress {
		t.Errorf("status = %q, want in_progress", updated.Status)
	}

	// Off-graph transitions are rejected even for admins.
	if _, err := svc.Transition(context.Background(), adminActor(uuid.New()), reportID, domain.StatusPending, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}

	// Admins may resolve with a note.
	resolved, err := svc.Transition(context.Background(), adminActor(uuid.New()), reportID, domain.StatusResolved, "Çukur kapatıldı.")
	if err != nil {
		t.Fatalf("admin resolve: %v", err)
	}
	if resolved.ResolutionNote == nil || *resolved.ResolutionNote != "Çukur kapatıldı." {
		t.Error("resolution note not stored")
	}

	// Terminal reports stay terminal.
	if _, err := svc.Transition(context.Background(), adminActor(uuid.New()), reportID, domain.StatusInProgress, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition after resolve", err)
	}
}

func TestAssignRequiresAdminAndWorkerRole(t *testing.T) {
	repo := newFakeReportRepo()
	workerID := uuid.New()
	citizenID := uuid.New()
	directory := &fakeDirectory{users: map[uuid.UUID]UserInfo{
		workerID:  {ID: workerID, Role: auth.RoleWorker, Email: "worker@belediye.gov.tr"},
		citizenID: {ID: citizenID, Role: auth.RoleCitizen},
	}}
	svc := newTestService(repo, nil, directory)

	created, err := svc.Create(context.Background(), validCreateParams(uuid.New()))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Assign(context.Background(), workerActor(uuid.New()), created.Report.ID, workerID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("worker assign err = %v, want ErrForbidden", err)
	}

	if _, err := svc.Assign(context.Background(), adminActor(uuid.New()), created.Report.ID, citizenID); !errors.Is(err, ErrNotAWorker) {
		t.Fatalf("assign citizen err = %v, want ErrNotAWorker", err)
	}

	assigned, err := svc.Assign(context.Background(), adminActor(uuid.New()), created.Report.ID, workerID)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if assigned.AssignedWorkerID == nil || *assigned.AssignedWorkerID != workerID {
		t.Error("worker not recorded on report")
	}
}

func TestListScoping(t *testing.T) {
	repo := newFakeReportRepo()
	workerID := uuid.New()
	directory := &fakeDirectory{users: map[uuid.UUID]UserInfo{
		workerID: {ID: workerID, Role: auth.RoleWorker, District: "Kadıköy"},
	}}
	svc := newTestService(repo, nil, directory)

	citizenID := uuid.New()
	if _, _, err := svc.List(context.Background(), citizenActor(citizenID), ListParams{}); err != nil {
		t.Fatalf("citizen list: %v", err)
	}
	if repo.lastList.ReporterID == nil || *repo.lastList.ReporterID != citizenID {
		t.Error("citizen listing not scoped to reporter")
	}

	if _, _, err := svc.List(context.Background(), workerActor(workerID), ListParams{}); err != nil {
		t.Fatalf("worker list: %v", err)
	}
	if repo.lastList.WorkerScope == nil || repo.lastList.WorkerScope.District != "Kadıköy" {
		t.Error("worker listing not scoped to assignments plus district")
	}

	if _, _, err := svc.List(context.Background(), adminActor(uuid.New()), ListParams{}); err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if repo.lastList.ReporterID != nil || repo.lastList.WorkerScope != nil || repo.lastList.AssignedWorkerID != nil {
		t.Error("admin listing should be unscoped")
	}
}

func TestUpdateOnlyByReporterWhilePending(t *testing.T) {
	repo := newFakeReportRepo()
	svc := newTestService(repo, nil, nil)

	reporterID := uuid.New()
	created, err := svc.Create(context.Background(), validCreateParams(reporterID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	update := UpdateParams{
		Title:       "Kaldırımda çok büyük çukur",
		Description: "Çukur genişledi, yayalar için tehlikeli hale geldi.",
		Category:    domain.CategoryRoad,
		Severity:    domain.SeverityCritical,
	}

	if _, err := svc.Update(context.Background(), citizenActor(uuid.New()), created.Report.ID, update); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger update err = %v, want ErrForbidden", err)
	}

	updated, err := svc.Update(context.Background(), citizenActor(reporterID), created.Report.ID, update)
	if err != nil {
		t.Fatalf("reporter update: %v", err)
	}
	if updated.Severity != domain.SeverityCritical {
		t.Errorf("severity = %q, want critical", updated.Severity)
	}

	// Once in progress the report is immutable to its author.
	workerID := uuid.New()
	if _, err := repo.AssignWorker(context.Background(), created.Report.ID, workerID); err != nil {
		t.Fatalf("AssignWorker: %v", err)
	}
	if _, err := svc.Transition(context.Background(), workerActor(workerID), created.Report.ID, domain.StatusInProgress, ""); err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if _, err := svc.Update(context.Background(), citizenActor(reporterID), created.Report.ID, update); !errors.Is(err, ErrImmutable) {
		t.Fatalf("err = %v, want ErrImmutable", err)
	}
}

func TestCommentVisibilityAndRole(t *testing.T) {
	repo := newFakeReportRepo()
	svc := newTestService(repo, nil, nil)

	reporterID := uuid.New()
	created, err := svc.Create(context.Background(), validCreateParams(reporterID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	comment, err := svc.Comment(context.Background(), citizenActor(reporterID), created.Report.ID, "Hâlâ düzeltilmedi.")
	if err != nil {
		t.Fatalf("reporter comment: %v", err)
	}
	if comment.AuthorRole != auth.RoleCitizen {
		t.Errorf("author role = %q, want citizen", comment.AuthorRole)
	}

	if _, err := svc.Comment(context.Background(), citizenActor(uuid.New()), created.Report.ID, "merak ettim"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger comment err = %v, want ErrForbidden", err)
	}

	adminComment, err := svc.Comment(context.Background(), adminActor(uuid.New()), created.Report.ID, "Ekip yönlendirildi.")
	if err != nil {
		t.Fatalf("admin comment: %v", err)
	}
	if adminComment.AuthorRole != auth.RoleAdmin {
		t.Errorf("author role = %q, want admin", adminComment.AuthorRole)
	}
}
