package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/app"
	"jobboard/internal/common"
	"jobboard/internal/domain/job"
	"jobboard/internal/domain/user"
	apphttp "jobboard/internal/http"
	"jobboard/internal/http/handlers"
	"jobboard/internal/http/metrics"
	httpmw "jobboard/internal/http/middleware"
	"jobboard/internal/observability"
	"jobboard/internal/security"
)

type memJobRepo struct {
	mu   sync.Mutex
	jobs map[common.UUID]*job.Job
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{jobs: make(map[common.UUID]*job.Job)}
}

func cloneJob(j *job.Job) *job.Job {
	cloned := *j
	cloned.Applications = append([]job.Application(nil), j.Applications...)
	return &cloned
}

func (r *memJobRepo) Create(ctx context.Context, j job.Job) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j.ID = common.NewUUID()
	j.CreatedAt = time.Now().UTC()
	j.Version = 1
	r.jobs[j.ID] = cloneJob(&j)
	return cloneJob(&j), nil
}

func (r *memJobRepo) GetByID(ctx context.Context, id common.UUID) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.jobs[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	return cloneJob(stored), nil
}

func (r *memJobRepo) List(ctx context.Context) ([]job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]job.Job, 0, len(r.jobs))
	for _, stored := range r.jobs {
		items = append(items, *cloneJob(stored))
	}
	return items, nil
}

func (r *memJobRepo) ListByEmployer(ctx context.Context, employerID common.UUID) ([]job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []job.Job
	for _, stored := range r.jobs {
		if stored.EmployerID == employerID {
			items = append(items, *cloneJob(stored))
		}
	}
	return items, nil
}

func (r *memJobRepo) ListByApplicant(ctx context.Context, userID common.UUID) ([]job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []job.Job
	for _, stored := range r.jobs {
		if _, ok := stored.ApplicationByUser(userID); ok {
			items = append(items, *cloneJob(stored))
		}
	}
	return items, nil
}

func (r *memJobRepo) Persist(ctx context.Context, j job.Job) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.jobs[j.ID]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	if stored.Version != j.Version {
		return nil, common.NewError(common.CodeConflict, "job was modified concurrently", nil)
	}
	j.Version++
	r.jobs[j.ID] = cloneJob(&j)
	return cloneJob(&j), nil
}

func (r *memJobRepo) Delete(ctx context.Context, id common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[id]; !ok {
		return common.NewError(common.CodeNotFound, "job not found", nil)
	}
	delete(r.jobs, id)
	return nil
}

type memUserRepo struct{}

func (memUserRepo) GetByID(ctx context.Context, id common.UUID) (*user.User, error) {
	return &user.User{ID: id, FirstName: "Test", LastName: "User"}, nil
}

func (memUserRepo) ListByIDs(ctx context.Context, ids []common.UUID) ([]user.User, error) {
	items := make([]user.User, 0, len(ids))
	for _, id := range ids {
		items = append(items, user.User{ID: id, FirstName: "Test", LastName: "User"})
	}
	return items, nil
}

type testServer struct {
	router http.Handler
	repo   *memJobRepo
	jwt    *security.JWTProvider
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	repo := newMemJobRepo()
	jwtProvider := security.NewJWTProvider("test-secret")
	router := apphttp.NewRouter(apphttp.RouterDependencies{
		JobHandler:         handlers.NewJobHandler(app.NewJobService(repo, memUserRepo{})),
		ApplicationHandler: handlers.NewApplicationHandler(app.NewApplicationService(repo), httpmw.NewRateLimiter()),
		AuthMiddleware:     httpmw.NewAuthMiddleware(jwtProvider),
		Metrics:            metrics.NewCollector(),
		Logger:             observability.NewLogger(),
		RequestTimeout:     5 * time.Second,
	})
	return &testServer{router: router, repo: repo, jwt: jwtProvider}
}

func (s *testServer) token(t *testing.T, userID common.UUID, role string) string {
	t.Helper()
	token, _, err := s.jwt.Generate(userID, role, time.Minute)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, req)
	return recorder
}

func (s *testServer) seedJob(t *testing.T, employerID common.UUID, vacancy int) *job.Job {
	t.Helper()
	created, err := s.repo.Create(context.Background(), job.Job{
		EmployerID:     employerID,
		Title:          "QA Engineer",
		Description:    "Test things",
		JobType:        job.TypeOnSite,
		Salary:         50000,
		Vacancy:        vacancy,
		CourseCriteria: "Any",
		Status:         job.StatusActive,
		Applications:   []job.Application{},
	})
	require.NoError(t, err)
	return created
}

func TestRouter_PublicJobListNeedsNoToken(t *testing.T) {
	srv := newTestServer(t)
	srv.seedJob(t, common.NewUUID(), 2)

	resp := srv.do(t, http.MethodGet, "/jobs", "", "")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestRouter_CreateJobRequiresEmployerRole(t *testing.T) {
	srv := newTestServer(t)
	body := `{"title":"Dev","description":"Code","job_type":"Remote","salary":1000,"vacancy":2,"course_criteria":"CS"}`

	resp := srv.do(t, http.MethodPost, "/jobs", "", body)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	seekerToken := srv.token(t, common.NewUUID(), "seeker")
	resp = srv.do(t, http.MethodPost, "/jobs", seekerToken, body)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	employerToken := srv.token(t, common.NewUUID(), "employer")
	resp = srv.do(t, http.MethodPost, "/jobs", employerToken, body)
	assert.Equal(t, http.StatusCreated, resp.Code)
}

func TestRouter_ApplyFlow(t *testing.T) {
	srv := newTestServer(t)
	created := srv.seedJob(t, common.NewUUID(), 1)
	seekerA := common.NewUUID()
	seekerB := common.NewUUID()

	resp := srv.do(t, http.MethodPost, "/jobs/"+created.ID.String()+"/apply", srv.token(t, seekerA, "seeker"), "")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope struct {
		Message string   `json:"message"`
		Job     *job.Job `json:"job"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Message)
	require.NotNil(t, envelope.Job)
	assert.Equal(t, 0, envelope.Job.Vacancy)
	assert.Equal(t, job.StatusClosed, envelope.Job.Status)

	// The job is now closed for everyone else.
	resp = srv.do(t, http.MethodPost, "/jobs/"+created.ID.String()+"/apply", srv.token(t, seekerB, "seeker"), "")
	assert.Equal(t, http.StatusConflict, resp.Code)

	// Employers cannot apply at all.
	resp = srv.do(t, http.MethodPost, "/jobs/"+created.ID.String()+"/apply", srv.token(t, common.NewUUID(), "employer"), "")
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestRouter_AcceptRequiresOwnership(t *testing.T) {
	srv := newTestServer(t)
	owner := common.NewUUID()
	created := srv.seedJob(t, owner, 3)
	seekerID := common.NewUUID()

	resp := srv.do(t, http.MethodPost, "/jobs/"+created.ID.String()+"/apply", srv.token(t, seekerID, "seeker"), "")
	require.Equal(t, http.StatusOK, resp.Code)

	stored, err := srv.repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, stored.Applications, 1)
	acceptPath := "/jobs/" + created.ID.String() + "/applications/" + stored.Applications[0].ID.String() + "/accept"

	resp = srv.do(t, http.MethodPost, acceptPath, srv.token(t, common.NewUUID(), "employer"), "")
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = srv.do(t, http.MethodPost, acceptPath, srv.token(t, owner, "employer"), "")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestRouter_UpdateStatusValidation(t *testing.T) {
	srv := newTestServer(t)
	owner := common.NewUUID()
	created := srv.seedJob(t, owner, 3)

	resp := srv.do(t, http.MethodPost, "/jobs/"+created.ID.String()+"/apply", srv.token(t, common.NewUUID(), "seeker"), "")
	require.Equal(t, http.StatusOK, resp.Code)

	stored, err := srv.repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	statusPath := "/jobs/" + created.ID.String() + "/applications/" + stored.Applications[0].ID.String() + "/status"

	resp = srv.do(t, http.MethodPatch, statusPath, srv.token(t, owner, "employer"), `{"status":"Hired"}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = srv.do(t, http.MethodPatch, statusPath, srv.token(t, owner, "employer"), `{"status":"Shortlisted"}`)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestRouter_ApplyRateLimited(t *testing.T) {
	srv := newTestServer(t)
	created := srv.seedJob(t, common.NewUUID(), 10)
	seekerToken := srv.token(t, common.NewUUID(), "seeker")
	path := "/jobs/" + created.ID.String() + "/apply"

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		codes = append(codes, srv.do(t, http.MethodPost, path, seekerToken, "").Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusConflict, http.StatusConflict, http.StatusTooManyRequests}, codes)
}
