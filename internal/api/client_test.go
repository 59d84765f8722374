package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ruhithpasha/emsfrontend/internal/model"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(srv.URL, 5*time.Second), srv
}

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))

	c.SetToken("tok-123")
	if err := c.Get(context.Background(), "/admin/stats", &struct{}{}); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization header = %q, want %q", gotAuth, "Bearer tok-123")
	}

	c.ClearToken()
	if err := c.Get(context.Background(), "/admin/stats", &struct{}{}); err != nil {
		t.Fatalf("Get after ClearToken: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization header after ClearToken = %q, want empty", gotAuth)
	}
}

func TestClientExtractsBackendMessage(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"message field", `{"message":"email already registered"}`, "email already registered"},
		{"error field", `{"error":"task not found"}`, "task not found"},
		{"no body", ``, "request failed"},
		{"non-json body", `oops`, "request failed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tc.body))
			}))

			err := c.Get(context.Background(), "/admin/tasks", &struct{}{})
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %v, want *APIError", err)
			}
			if apiErr.Message != tc.want {
				t.Errorf("Message = %q, want %q", apiErr.Message, tc.want)
			}
			if apiErr.StatusCode != http.StatusBadRequest {
				t.Errorf("StatusCode = %d, want 400", apiErr.StatusCode)
			}
		})
	}
}

func TestClientMapsUnauthorizedToAuthError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"jwt expired"}`))
	}))

	err := c.Get(context.Background(), "/employee/profile", &struct{}{})
	if !IsAuthError(err) {
		t.Fatalf("IsAuthError(%v) = false, want true", err)
	}

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("error = %v, want *AuthError", err)
	}
	if authErr.Message != "jwt expired" {
		t.Errorf("Message = %q, want %q", authErr.Message, "jwt expired")
	}
}

func TestLoginInstallsTokenAndResolvesRole(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["email"] != "a@b.c" || body["password"] != "secret" {
			t.Errorf("credentials = %v", body)
		}

		// Role lives on the user document, not the top level.
		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-login",
			"user": map[string]string{
				"_id":       "u1",
				"firstName": "Ada",
				"email":     "a@b.c",
				"role":      "admin",
			},
		})
	}))

	res, err := c.Login(context.Background(), "a@b.c", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Role != model.RoleAdmin {
		t.Errorf("Role = %s, want admin", res.Role)
	}
	if res.Profile.FirstName != "Ada" {
		t.Errorf("FirstName = %q, want Ada", res.Profile.FirstName)
	}
	if res.Token != "tok-login" {
		t.Errorf("Token = %q, want tok-login", res.Token)
	}
}

func TestLoginRejectsUnknownRole(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok",
			"role":  "superuser",
		})
	}))

	if _, err := c.Login(context.Background(), "a@b.c", "x"); err == nil {
		t.Fatal("Login with unknown role succeeded, want error")
	}
}

func TestUpdateTaskStatusBody(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string]string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	err := c.UpdateTaskStatus(context.Background(), "t42", model.StatusCompleted)
	if err != nil {
		t.Fatalf("UpdateTaskStatus: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/employee/task/t42" {
		t.Errorf("request = %s %s, want PUT /employee/task/t42", gotMethod, gotPath)
	}
	if gotBody["taskStatus"] != "completed" {
		t.Errorf("taskStatus = %q, want completed", gotBody["taskStatus"])
	}
}

func TestListTasksReconcilesStatusSoup(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"_id":"t1","title":"a","taskStatus":"active"},
			{"_id":"t2","title":"b","completed":true},
			{"_id":"t3","title":"c"}
		]`))
	}))

	tasks, err := c.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("got %d tasks, want 3", len(tasks))
	}

	want := []model.Status{model.StatusActive, model.StatusCompleted, model.StatusNew}
	for i, w := range want {
		if tasks[i].Status != w {
			t.Errorf("task %s status = %s, want %s", tasks[i].ID, tasks[i].Status, w)
		}
	}
}

func TestProfileParsesEmbeddedBoard(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/employee/profile" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"user": {"_id":"u9","firstName":"Bo","email":"bo@x.y","role":"employee"},
			"tasks": [{"_id":"t1","title":"ship it","taskStatus":"newTask","date":"2026-09-15"}],
			"taskCounts": {"newTask":1,"active":0,"completed":0,"failed":0,"total":1}
		}`))
	}))

	res, err := c.Profile(context.Background())
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if res.Profile.ID != "u9" {
		t.Errorf("Profile.ID = %q, want u9", res.Profile.ID)
	}
	if len(res.Tasks) != 1 || res.Tasks[0].Status != model.StatusNew {
		t.Errorf("Tasks = %+v", res.Tasks)
	}
	if res.Tasks[0].DueDate.Format("2006-01-02") != "2026-09-15" {
		t.Errorf("DueDate = %v, want 2026-09-15", res.Tasks[0].DueDate)
	}
	if res.Counts.Total != 1 {
		t.Errorf("Counts.Total = %d, want 1", res.Counts.Total)
	}
}

func TestClientDoesNotRetry(t *testing.T) {
	var hits int
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"message":"slow down"}`))
	}))

	err := c.Get(context.Background(), "/admin/employees", &struct{}{})
	if err == nil {
		t.Fatal("Get succeeded, want error")
	}
	if hits != 1 {
		t.Errorf("backend hit %d times, want exactly 1", hits)
	}
}

func TestSingleResourceGetters(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/employees/u1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"_id": "u1", "firstName": "Ada", "email": "ada@corp.io",
			"taskCounts": map[string]int{"active": 2, "completed": 1, "total": 3},
		})
	})
	mux.HandleFunc("/admin/employees/u1/tasks", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"_id": "t1", "title": "Deploy staging", "taskStatus": "active", "assignedTo": "u1"},
			{"_id": "t2", "title": "Fix login bug", "taskStatus": "newTask", "assignedTo": "u1"},
		})
	})
	mux.HandleFunc("/admin/tasks/t1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"_id": "t1", "title": "Deploy staging", "taskStatus": "active",
			"assignedTo": "u1", "priority": "high", "date": "2026-09-15",
		})
	})
	c, _ := newTestClient(t, mux)
	ctx := context.Background()

	emp, err := c.GetEmployee(ctx, "u1")
	if err != nil {
		t.Fatalf("GetEmployee: %v", err)
	}
	if emp.FirstName != "Ada" || emp.TaskCounts.Total != 3 {
		t.Errorf("GetEmployee = %+v", emp)
	}

	tasks, err := c.EmployeeTasks(ctx, "u1")
	if err != nil {
		t.Fatalf("EmployeeTasks: %v", err)
	}
	if len(tasks) != 2 || tasks[1].Status != model.StatusNew {
		t.Errorf("EmployeeTasks = %+v", tasks)
	}

	task, err := c.GetTask(ctx, "t1")
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if task.Priority != "high" || task.DueDate.IsZero() {
		t.Errorf("GetTask = %+v", task)
	}
}
