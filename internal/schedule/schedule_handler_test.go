package schedule_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-staffing/internal/middleware"
	"go-staffing/internal/schedule"
	scheduleerrors "go-staffing/internal/schedule/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeScheduleService struct {
	createFn           func(ctx context.Context, actorID, actorRole string, req schedule.CreateScheduleRequest) (schedule.ScheduleResponse, error)
	getAllFn           func(ctx context.Context) ([]schedule.ScheduleResponse, error)
	getByIDFn          func(ctx context.Context, id string) (schedule.ScheduleResponse, error)
	updateFn           func(ctx context.Context, actorID, actorRole, id string, req schedule.UpdateScheduleRequest) (schedule.ScheduleResponse, error)
	transitionFn       func(ctx context.Context, actorID, actorRole, id, target string) (schedule.ScheduleResponse, error)
	findConflictsFn    func(ctx context.Context, req schedule.ConflictProbeRequest) ([]schedule.ConflictDetail, error)
	employeeCalendarFn func(ctx context.Context, employeeID string) (schedule.EmployeeCalendarResponse, error)
}

func (f *fakeScheduleService) Create(ctx context.Context, actorID, actorRole string, req schedule.CreateScheduleRequest) (schedule.ScheduleResponse, error) {
	return f.createFn(ctx, actorID, actorRole, req)
}
func (f *fakeScheduleService) GetAll(ctx context.Context) ([]schedule.ScheduleResponse, error) {
	return f.getAllFn(ctx)
}
func (f *fakeScheduleService) GetByID(ctx context.Context, id string) (schedule.ScheduleResponse, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeScheduleService) Update(ctx context.Context, actorID, actorRole, id string, req schedule.UpdateScheduleRequest) (schedule.ScheduleResponse, error) {
	return f.updateFn(ctx, actorID, actorRole, id, req)
}
func (f *fakeScheduleService) Transition(ctx context.Context, actorID, actorRole, id, target string) (schedule.ScheduleResponse, error) {
	return f.transitionFn(ctx, actorID, actorRole, id, target)
}
func (f *fakeScheduleService) FindConflicts(ctx context.Context, req schedule.ConflictProbeRequest) ([]schedule.ConflictDetail, error) {
	return f.findConflictsFn(ctx, req)
}
func (f *fakeScheduleService) EmployeeCalendar(ctx context.Context, employeeID string) (schedule.EmployeeCalendarResponse, error) {
	return f.employeeCalendarFn(ctx, employeeID)
}

func TestScheduleHandler_Create(t *testing.T) {
	actorID := uuid.New().String()
	employeeID := uuid.New().String()
	clientID := uuid.New().String()

	body := `{"employee_id":"` + employeeID + `","client_id":"` + clientID + `","start_date":"2026-09-07","end_date":"2026-09-11","weekly_hours":40}`

	t.Run("success", func(t *testing.T) {
		svc := &fakeScheduleService{
			createFn: func(ctx context.Context, aid, role string, req schedule.CreateScheduleRequest) (schedule.ScheduleResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.Equal(t, "hr", role)
				assert.Equal(t, employeeID, req.EmployeeID)
				return schedule.ScheduleResponse{
					ID:          uuid.New().String(),
					EmployeeID:  req.EmployeeID,
					ClientID:    req.ClientID,
					StartDate:   req.StartDate,
					EndDate:     req.EndDate,
					WeeklyHours: req.WeeklyHours,
					Status:      schedule.StatusPlanned,
					CreatedBy:   aid,
				}, nil
			},
		}

		h := schedule.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/schedules", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set(middleware.KeyActorID, actorID)
		c.Set(middleware.KeyRole, "hr")

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got schedule.ScheduleResponse
		err := json.Unmarshal(env.Data, &got)
		assert.NoError(t, err)
		assert.Equal(t, employeeID, got.EmployeeID)
		assert.Equal(t, schedule.StatusPlanned, got.Status)
	})

	t.Run("negative conflict returns 409", func(t *testing.T) {
		svc := &fakeScheduleService{
			createFn: func(ctx context.Context, aid, role string, req schedule.CreateScheduleRequest) (schedule.ScheduleResponse, error) {
				return schedule.ScheduleResponse{}, scheduleerrors.ErrScheduleConflict
			},
		}

		h := schedule.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/schedules", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set(middleware.KeyActorID, actorID)
		c.Set(middleware.KeyRole, "hr")

		h.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "CONFLICT", env.Error.Code)
	})

	t.Run("negative validation error", func(t *testing.T) {
		h := schedule.NewHandler(&fakeScheduleService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/schedules", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})
}

func TestScheduleHandler_Transitions(t *testing.T) {
	actorID := uuid.New().String()
	id := uuid.New().String()

	cases := []struct {
		name   string
		invoke func(h *schedule.Handler, c *gin.Context)
		target string
	}{
		{"confirm", func(h *schedule.Handler, c *gin.Context) { h.Confirm(c) }, schedule.StatusConfirmed},
		{"activate", func(h *schedule.Handler, c *gin.Context) { h.Activate(c) }, schedule.StatusActive},
		{"complete", func(h *schedule.Handler, c *gin.Context) { h.Complete(c) }, schedule.StatusCompleted},
		{"cancel", func(h *schedule.Handler, c *gin.Context) { h.Cancel(c) }, schedule.StatusCancelled},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeScheduleService{
				transitionFn: func(ctx context.Context, aid, role, targetID, target string) (schedule.ScheduleResponse, error) {
					assert.Equal(t, actorID, aid)
					assert.Equal(t, id, targetID)
					assert.Equal(t, tc.target, target)
					return schedule.ScheduleResponse{ID: targetID, Status: target}, nil
				},
			}

			h := schedule.NewHandler(svc)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/schedules/"+id+"/"+tc.name, nil)
			c.Params = []gin.Param{{Key: "id", Value: id}}
			c.Set(middleware.KeyActorID, actorID)
			c.Set(middleware.KeyRole, "admin")

			tc.invoke(h, c)

			assert.Equal(t, http.StatusOK, w.Code)
			env := decodeEnvelope(t, w.Body.Bytes())
			assert.True(t, env.Ok)
			var got schedule.ScheduleResponse
			err := json.Unmarshal(env.Data, &got)
			assert.NoError(t, err)
			assert.Equal(t, tc.target, got.Status)
		})
	}

	t.Run("negative invalid transition returns 400", func(t *testing.T) {
		svc := &fakeScheduleService{
			transitionFn: func(ctx context.Context, aid, role, targetID, target string) (schedule.ScheduleResponse, error) {
				return schedule.ScheduleResponse{}, scheduleerrors.ErrInvalidStatusTransition
			},
		}

		h := schedule.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/schedules/"+id+"/complete", nil)
		c.Params = []gin.Param{{Key: "id", Value: id}}
		c.Set(middleware.KeyActorID, actorID)
		c.Set(middleware.KeyRole, "hr")

		h.Complete(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "INVALID_STATE", env.Error.Code)
	})
}

func TestScheduleHandler_Conflicts(t *testing.T) {
	employeeID := uuid.New().String()
	body := `{"employee_id":"` + employeeID + `","start_date":"2026-09-07","end_date":"2026-09-11"}`

	t.Run("blocked range", func(t *testing.T) {
		svc := &fakeScheduleService{
			findConflictsFn: func(ctx context.Context, req schedule.ConflictProbeRequest) ([]schedule.ConflictDetail, error) {
				assert.Equal(t, employeeID, req.EmployeeID)
				return []schedule.ConflictDetail{{
					ScheduleID: uuid.New().String(),
					EmployeeID: employeeID,
					StartDate:  "2026-09-10",
					EndDate:    "2026-09-15",
					Status:     schedule.StatusConfirmed,
				}}, nil
			},
		}

		h := schedule.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/schedules/conflicts", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Conflicts(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)

		var got struct {
			Conflicts []schedule.ConflictDetail `json:"conflicts"`
			Available bool                      `json:"available"`
		}
		err := json.Unmarshal(env.Data, &got)
		assert.NoError(t, err)
		assert.False(t, got.Available)
		assert.Len(t, got.Conflicts, 1)
		assert.Equal(t, schedule.StatusConfirmed, got.Conflicts[0].Status)
	})

	t.Run("available range", func(t *testing.T) {
		svc := &fakeScheduleService{
			findConflictsFn: func(ctx context.Context, req schedule.ConflictProbeRequest) ([]schedule.ConflictDetail, error) {
				return nil, nil
			},
		}

		h := schedule.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/schedules/conflicts", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Conflicts(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		var got struct {
			Available bool `json:"available"`
		}
		err := json.Unmarshal(env.Data, &got)
		assert.NoError(t, err)
		assert.True(t, got.Available)
	})
}

func TestScheduleHandler_EmployeeCalendar(t *testing.T) {
	employeeID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		svc := &fakeScheduleService{
			employeeCalendarFn: func(ctx context.Context, id string) (schedule.EmployeeCalendarResponse, error) {
				assert.Equal(t, employeeID, id)
				return schedule.EmployeeCalendarResponse{
					Employee: schedule.EmployeeSummary{ID: id, Name: "Maja Lind", Email: "maja.lind@example.com"},
					Schedules: []schedule.ScheduleResponse{
						{ID: uuid.New().String(), EmployeeID: id, Status: schedule.StatusPlanned},
					},
				}, nil
			},
		}

		h := schedule.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/employees/"+employeeID+"/schedules", nil)
		c.Params = []gin.Param{{Key: "id", Value: employeeID}}

		h.EmployeeCalendar(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got schedule.EmployeeCalendarResponse
		err := json.Unmarshal(env.Data, &got)
		assert.NoError(t, err)
		assert.Equal(t, "Maja Lind", got.Employee.Name)
		assert.Len(t, got.Schedules, 1)
	})

	t.Run("negative unknown employee returns 404", func(t *testing.T) {
		svc := &fakeScheduleService{
			employeeCalendarFn: func(ctx context.Context, id string) (schedule.EmployeeCalendarResponse, error) {
				return schedule.EmployeeCalendarResponse{}, scheduleerrors.ErrEmployeeNotFound
			},
		}

		h := schedule.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/employees/"+employeeID+"/schedules", nil)
		c.Params = []gin.Param{{Key: "id", Value: employeeID}}

		h.EmployeeCalendar(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	})
}
