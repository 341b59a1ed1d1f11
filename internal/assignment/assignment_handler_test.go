package assignment_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-staffing/internal/assignment"
	assignmenterrors "go-staffing/internal/assignment/errors"
	"go-staffing/internal/middleware"

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

type fakeAssignmentService struct {
	createFn     func(ctx context.Context, actorID string, req assignment.CreateAssignmentRequest) (assignment.AssignmentResponse, error)
	getAllFn     func(ctx context.Context) ([]assignment.AssignmentResponse, error)
	getByIDFn    func(ctx context.Context, id string) (assignment.AssignmentResponse, error)
	updateFn     func(ctx context.Context, actorID, id string, req assignment.UpdateAssignmentRequest) (assignment.AssignmentResponse, error)
	transitionFn func(ctx context.Context, actorID, id, target string) (assignment.AssignmentResponse, error)
	deleteFn     func(ctx context.Context, actorID, id string) error
}

func (f *fakeAssignmentService) Create(ctx context.Context, actorID string, req assignment.CreateAssignmentRequest) (assignment.AssignmentResponse, error) {
	return f.createFn(ctx, actorID, req)
}
func (f *fakeAssignmentService) GetAll(ctx context.Context) ([]assignment.AssignmentResponse, error) {
	return f.getAllFn(ctx)
}
func (f *fakeAssignmentService) GetByID(ctx context.Context, id string) (assignment.AssignmentResponse, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeAssignmentService) Update(ctx context.Context, actorID, id string, req assignment.UpdateAssignmentRequest) (assignment.AssignmentResponse, error) {
	return f.updateFn(ctx, actorID, id, req)
}
func (f *fakeAssignmentService) Transition(ctx context.Context, actorID, id, target string) (assignment.AssignmentResponse, error) {
	return f.transitionFn(ctx, actorID, id, target)
}
func (f *fakeAssignmentService) Delete(ctx context.Context, actorID, id string) error {
	return f.deleteFn(ctx, actorID, id)
}

func TestAssignmentHandler_Create(t *testing.T) {
	actorID := uuid.New().String()
	employeeID := uuid.New().String()
	clientID := uuid.New().String()

	body := `{"client_id":"` + clientID + `","employee_id":"` + employeeID + `","position":"warehouse operator","start_date":"2026-09-01","end_date":"2026-12-31","hourly_rate":18.5,"max_hours":160}`

	t.Run("success", func(t *testing.T) {
		svc := &fakeAssignmentService{
			createFn: func(ctx context.Context, aid string, req assignment.CreateAssignmentRequest) (assignment.AssignmentResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.Equal(t, 18.5, req.HourlyRate)
				return assignment.AssignmentResponse{
					ID:         uuid.New().String(),
					ClientID:   req.ClientID,
					EmployeeID: req.EmployeeID,
					Position:   req.Position,
					HourlyRate: req.HourlyRate,
					MaxHours:   req.MaxHours,
					Status:     assignment.StatusPending,
					CreatedBy:  aid,
				}, nil
			},
		}

		h := assignment.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/assignments", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set(middleware.KeyActorID, actorID)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got assignment.AssignmentResponse
		err := json.Unmarshal(env.Data, &got)
		assert.NoError(t, err)
		assert.Equal(t, assignment.StatusPending, got.Status)
	})

	t.Run("negative zero max_hours fails binding", func(t *testing.T) {
		h := assignment.NewHandler(&fakeAssignmentService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		badBody := strings.Replace(body, `"max_hours":160`, `"max_hours":0`, 1)
		c.Request = httptest.NewRequest(http.MethodPost, "/assignments", strings.NewReader(badBody))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})
}

func TestAssignmentHandler_Transitions(t *testing.T) {
	actorID := uuid.New().String()
	id := uuid.New().String()

	cases := []struct {
		name   string
		invoke func(h *assignment.Handler, c *gin.Context)
		target string
	}{
		{"activate", func(h *assignment.Handler, c *gin.Context) { h.Activate(c) }, assignment.StatusActive},
		{"pause", func(h *assignment.Handler, c *gin.Context) { h.Pause(c) }, assignment.StatusPaused},
		{"resume", func(h *assignment.Handler, c *gin.Context) { h.Resume(c) }, assignment.StatusActive},
		{"complete", func(h *assignment.Handler, c *gin.Context) { h.Complete(c) }, assignment.StatusCompleted},
		{"cancel", func(h *assignment.Handler, c *gin.Context) { h.Cancel(c) }, assignment.StatusCancelled},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeAssignmentService{
				transitionFn: func(ctx context.Context, aid, targetID, target string) (assignment.AssignmentResponse, error) {
					assert.Equal(t, actorID, aid)
					assert.Equal(t, id, targetID)
					assert.Equal(t, tc.target, target)
					return assignment.AssignmentResponse{ID: targetID, Status: target}, nil
				},
			}

			h := assignment.NewHandler(svc)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/assignments/"+id+"/"+tc.name, nil)
			c.Params = []gin.Param{{Key: "id", Value: id}}
			c.Set(middleware.KeyActorID, actorID)

			tc.invoke(h, c)

			assert.Equal(t, http.StatusOK, w.Code)
			env := decodeEnvelope(t, w.Body.Bytes())
			assert.True(t, env.Ok)
		})
	}

	t.Run("negative terminal returns 400", func(t *testing.T) {
		svc := &fakeAssignmentService{
			transitionFn: func(ctx context.Context, aid, targetID, target string) (assignment.AssignmentResponse, error) {
				return assignment.AssignmentResponse{}, assignmenterrors.ErrAssignmentTerminal
			},
		}

		h := assignment.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/assignments/"+id+"/activate", nil)
		c.Params = []gin.Param{{Key: "id", Value: id}}
		c.Set(middleware.KeyActorID, actorID)

		h.Activate(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "INVALID_STATE", env.Error.Code)
	})
}

func TestAssignmentHandler_Delete(t *testing.T) {
	actorID := uuid.New().String()
	id := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		svc := &fakeAssignmentService{
			deleteFn: func(ctx context.Context, aid, targetID string) error {
				assert.Equal(t, actorID, aid)
				assert.Equal(t, id, targetID)
				return nil
			},
		}

		h := assignment.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodDelete, "/assignments/"+id, nil)
		c.Params = []gin.Param{{Key: "id", Value: id}}
		c.Set(middleware.KeyActorID, actorID)

		h.Delete(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		assert.JSONEq(t, `{"deleted":true}`, string(env.Data))
	})

	t.Run("negative not found", func(t *testing.T) {
		svc := &fakeAssignmentService{
			deleteFn: func(ctx context.Context, aid, targetID string) error {
				return assignmenterrors.ErrAssignmentNotFound
			},
		}

		h := assignment.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodDelete, "/assignments/"+id, nil)
		c.Params = []gin.Param{{Key: "id", Value: id}}
		c.Set(middleware.KeyActorID, actorID)

		h.Delete(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	})
}
