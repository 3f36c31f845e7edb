// Package web serves the JSON API. Each signed-in account gets its own
// state core; auth rides on HMAC-signed session cookies.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"listily/internal/lock"
	"listily/internal/model"
	"listily/internal/mutate"
	"listily/internal/session"
	"listily/internal/store"
	"listily/internal/suggest"
)

const (
	sessionCookieName = "listily_web_session"
	sessionTTL        = 30 * 24 * time.Hour

	// Wrong unlock attempts before the response starts carrying the hint.
	hintRevealThreshold = 3
)

// SessionFactory builds the state core for one account.
type SessionFactory func(ctx context.Context, userID string) (*session.Session, error)

type ServerConfig struct {
	Addr    string
	DataDir string

	// Secret overrides the persisted signing key; tests use it.
	Secret string
}

type Server struct {
	cfg     ServerConfig
	secret  []byte
	users   *Users
	newSess SessionFactory
	suggest *suggest.Client
	log     zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*session.Session
	failed   map[string]int // userID+"/"+workspaceID -> wrong unlock attempts
}

// DefaultSessionFactory stores each account's snapshot and activity log under
// dataDir/users/<id>.
func DefaultSessionFactory(dataDir string) SessionFactory {
	return func(ctx context.Context, userID string) (*session.Session, error) {
		st := store.Store{Dir: filepath.Join(dataDir, "users", userID)}
		if err := st.Ensure(); err != nil {
			return nil, err
		}
		return session.New(ctx, session.LocalBackend{Store: st}, session.WithActivityLog(st))
	}
}

func NewServer(cfg ServerConfig, factory SessionFactory, sg *suggest.Client, log zerolog.Logger) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.DataDir = strings.TrimSpace(cfg.DataDir)
	if cfg.Addr == "" {
		return nil, errors.New("web: addr is empty")
	}
	if cfg.DataDir == "" {
		return nil, errors.New("web: data dir is empty")
	}

	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		var err error
		secret, err = loadOrInitSecretKey(cfg.DataDir)
		if err != nil {
			return nil, err
		}
	}
	users, err := LoadUsers(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	if factory == nil {
		factory = DefaultSessionFactory(cfg.DataDir)
	}
	return &Server{
		cfg:      cfg,
		secret:   secret,
		users:    users,
		newSess:  factory,
		suggest:  sg,
		log:      log,
		sessions: make(map[string]*session.Session),
		failed:   make(map[string]int),
	}, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /signup", s.handleSignup)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /logout", s.handleLogout)

	mux.HandleFunc("GET /state", s.withSession(s.handleState))

	mux.HandleFunc("POST /workspaces", s.withSession(s.handleWorkspaceCreate))
	mux.HandleFunc("DELETE /workspaces/{workspaceId}", s.withSession(s.handleWorkspaceDelete))
	mux.HandleFunc("POST /workspaces/{workspaceId}/use", s.withSession(s.handleWorkspaceUse))
	mux.HandleFunc("POST /workspaces/{workspaceId}/rename", s.withSession(s.handleWorkspaceRename))
	mux.HandleFunc("POST /workspaces/{workspaceId}/clear", s.withSession(s.handleWorkspaceClear))
	mux.HandleFunc("POST /workspaces/{workspaceId}/clear-tasks", s.withSession(s.handleWorkspaceClearTasks))
	mux.HandleFunc("POST /workspaces/{workspaceId}/show-priority", s.withSession(s.handleShowPriority))
	mux.HandleFunc("POST /workspaces/{workspaceId}/show-effort", s.withSession(s.handleShowEffort))

	mux.HandleFunc("POST /tasks", s.withSession(s.handleTaskCreate))
	mux.HandleFunc("POST /tasks/{taskId}/toggle", s.withSession(s.handleTaskToggle))
	mux.HandleFunc("POST /tasks/{taskId}/edit", s.withSession(s.handleTaskEdit))
	mux.HandleFunc("DELETE /tasks/{taskId}", s.withSession(s.handleTaskDelete))

	mux.HandleFunc("GET /workspaces/{workspaceId}/notes", s.withSession(s.handleNotesList))
	mux.HandleFunc("POST /workspaces/{workspaceId}/notes", s.withSession(s.handleNoteCreate))
	mux.HandleFunc("POST /notes/{noteId}/edit", s.withSession(s.handleNoteEdit))
	mux.HandleFunc("DELETE /notes/{noteId}", s.withSession(s.handleNoteDelete))

	mux.HandleFunc("POST /workspaces/{workspaceId}/lock", s.withSession(s.handleLockSet))
	mux.HandleFunc("DELETE /workspaces/{workspaceId}/lock", s.withSession(s.handleLockRemove))
	mux.HandleFunc("POST /workspaces/{workspaceId}/unlock", s.withSession(s.handleUnlock))
	mux.HandleFunc("POST /workspaces/{workspaceId}/unlock-code", s.withSession(s.handleUnlockCode))

	mux.HandleFunc("POST /suggest", s.withSession(s.handleSuggest))
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// --- JSON plumbing ---------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeBody(r *http.Request, v any) error {
	defer func() { _ = r.Body.Close() }()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// writeOpError maps domain errors onto HTTP statuses.
func (s *Server) writeOpError(w http.ResponseWriter, err error) {
	var nf mutate.NotFoundError
	switch {
	case errors.As(err, &nf):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrLocked):
		jsonError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, lock.ErrPasswordTooShort):
		jsonError(w, http.StatusUnprocessableEntity, err.Error())
	case mutate.IsValidation(err):
		jsonError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.log.Error().Err(err).Msg("request failed")
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}

// --- Auth ------------------------------------------------------------------

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *session.Session, userID string)

func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(sessionCookieName)
		if err != nil {
			jsonError(w, http.StatusUnauthorized, "not signed in")
			return
		}
		sp, err := verifyToken(s.secret, c.Value)
		if err != nil || sp.Typ != "session" {
			jsonError(w, http.StatusUnauthorized, "invalid session")
			return
		}
		sess, err := s.sessionFor(r.Context(), sp.Sub)
		if err != nil {
			s.log.Error().Err(err).Str("user", sp.Sub).Msg("open session failed")
			jsonError(w, http.StatusInternalServerError, "internal error")
			return
		}
		h(w, r, sess, sp.Sub)
	}
}

func (s *Server) sessionFor(ctx context.Context, userID string) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[userID]; ok {
		return sess, nil
	}
	sess, err := s.newSess(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.sessions[userID] = sess
	return sess, nil
}

func (s *Server) setSessionCookie(w http.ResponseWriter, userID string) error {
	tok, err := newSessionToken(s.secret, userID, sessionTTL)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := s.users.Signup(req.Email, req.Password)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, ErrEmailTaken) {
			status = http.StatusConflict
		}
		jsonError(w, status, err.Error())
		return
	}
	if err := s.setSessionCookie(w, user.ID); err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": user.ID, "email": user.Email})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := s.users.Login(req.Email, req.Password)
	if err != nil {
		jsonError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err := s.setSessionCookie(w, user.ID); err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": user.ID, "email": user.Email})
}

// handleLogout drops the cookie and the in-memory session, so every
// protected workspace is locked again on the next sign-in.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookieName); err == nil {
		if sp, err := verifyToken(s.secret, c.Value); err == nil {
			s.mu.Lock()
			delete(s.sessions, sp.Sub)
			s.mu.Unlock()
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// --- State -----------------------------------------------------------------

type workspaceVM struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	HasPassword    bool   `json:"hasPassword"`
	Locked         bool   `json:"locked"`
	ShowPriority   bool   `json:"showPriority"`
	ShowEffort     bool   `json:"showEffort"`
	CompletedTasks int    `json:"completedTasks"`
	TotalTasks     int    `json:"totalTasks"`
}

type stateVM struct {
	ActiveWorkspaceID string        `json:"activeWorkspaceId"`
	Workspaces        []workspaceVM `json:"workspaces"`
	Tasks             []model.Task  `json:"tasks"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request, sess *session.Session, userID string) {
	db := sess.Snapshot()
	vm := stateVM{ActiveWorkspaceID: db.ActiveWorkspaceID}
	for _, ws := range db.Workspaces {
		completed, total := db.TaskCounts(ws.ID)
		vm.Workspaces = append(vm.Workspaces, workspaceVM{
			ID:             ws.ID,
			Name:           ws.Name,
			HasPassword:    ws.PasswordHash != "",
			Locked:         sess.IsLocked(ws.ID),
			ShowPriority:   ws.ShowPriority,
			ShowEffort:     ws.ShowEffort,
			CompletedTasks: completed,
			TotalTasks:     total,
		})
	}
	vm.Tasks = db.TasksOf(db.ActiveWorkspaceID)
	writeJSON(w, http.StatusOK, vm)
}

// --- Workspaces ------------------------------------------------------------

func (s *Server) handleWorkspaceCreate(w http.ResponseWriter, r *http.Request, sess *session.Session, userID string) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	ws, err := sess.AddWorkspace(r.Context(), req.Name)
	if err != nil {
		s.writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ws)
}

func (s *Server) handleWorkspaceDelete(w http.ResponseWriter, r *http.Request, sess *session.Session, userID string) {
	if err := sess.DeleteWorkspace(r.Context(), r.PathValue("workspaceId")); err != nil {
		s.writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleWorkspaceUse(w http.ResponseWriter, r *http.Request, sess *session.Session, userID string) {
	if err := sess.UseWorkspace(r.Context(), r.PathValue("workspaceId")); err != nil {
		s.writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleWorkspaceRename(w http.ResponseWriter, r *http.Request, sess *session.Session, userID string) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := sess.RenameWorkspace(r.Context(), r.PathValue("workspaceId"), req.Name); err != nil {
		s.writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleWorkspaceClear(w http.ResponseWriter, r *http.Request, sess *session.Session, userID string) {
	if err := sess.ClearWorkspace(r.Context(), r.PathValue("workspaceId")); err != nil {
		s.writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleWorkspaceClearTasks(w http.ResponseWriter, r *http.Request, sess *session.Session, userID string) {
	if err := sess.ClearTasks(r.Context(), r.PathValue("workspaceId")); err != nil {
		s.writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleShowPriority(w http.ResponseWriter, r *http.Request, sess *session.Session, userID string) {
	var req struct {
		Show bool `json:"show"`
	}
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := sess.SetShowPriority(r.Context(), r.PathValue("workspaceId"), req.Show); err != nil {
		s.writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleShowEffort(w http.ResponseWriter, r *http.Request, sess *session.Session, userID string) {
	var req struct {
		Show bool `json:"show"`
	}
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := sess.SetShowEffort(r.Context(), r.PathValue("workspaceId"), req.Show); err != nil {
		s.writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// --- Tasks -----------------------------------------------------------------

type taskReq struct {
	Text            string `json:"text"`
	Priority        string `json:"priority"`
	Effort          string `json:"effort"`
	DurationMinutes *int   `json:"durationMinutes"`
}

func (s *Server) handleTaskCreate(w http.ResponseWriter, r *http.Request, sess *session.Session, userID string) {
	var req taskReq
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	priority, err := model.ParsePriority(req.Priority)
	if err != nil {
		jsonError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	effort, err := model.ParseEffort(req.Effort)
	if err != nil {
		jsonError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	task, err := sess.AddTask(r.Context(), req.Text, priority, effort, req.DurationMinutes)
	if err != nil {
		s.writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleTaskToggle(w http.ResponseWriter, r *http.Request, sess *session.Session, userID string) {
	task, err := sess.ToggleTask(r.Context(), r.PathValue("taskId"))
	if err != nil {
		s.writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleTaskEdit(w http.ResponseWriter, r *http.Request, sess *session.Session, userID string) {
	var req taskReq
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	priority, err := model.ParsePriority(req.Priority)
	if err != nil {
		jsonError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	effort, err := model.ParseEffort(req.Effort)
	if err != nil {
		jsonError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	task, err := sess.EditTask(r.Context(), r.PathValue("taskId"), req.Text, priority, effort, req.DurationMinutes)
	if err != nil {
		s.writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleTaskDelete(w http.ResponseWriter, r *http.Request, sess *session.Session, userID string) {
	if err := sess.DeleteTask(r.Context(), r.PathValue("taskId")); err != nil {
		s.writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// --- Notes -----------------------------------------------------------------

func (s *Server) handleNotesList(w http.ResponseWriter, r *http.Request, sess *session.Session, userID string) {
	notes, err := sess.Notes(r.PathValue("workspaceId"))
	if err != nil {
		s.writeOpError(w, err)
		return
	}
	if notes == nil {
		notes = []model.Note{}
	}
	writeJSON(w, http.StatusOK, notes)
}

type noteReq struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (s *Server) handleNoteCreate(w http.ResponseWriter, r *http.Request, sess *session.Session, userID string) {
	workspaceID := r.PathValue("workspaceId")
	if sess.IsLocked(workspaceID) {
		s.writeOpError(w, session.ErrLocked)
		return
	}
	var req noteReq
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	d := sess.NewDraft(workspaceID)
	if strings.TrimSpace(req.Title) != "" {
		d.Title = req.Title
	}
	d.Content = req.Content
	note, err := sess.SaveDraft(r.Context(), d)
	if err != nil {
		s.writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (s *Server) handleNoteEdit(w http.ResponseWriter, r *http.Request, sess *session.Session, userID string) {
	var req noteReq
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	id := r.PathValue("noteId")
	if _, locked := s.noteWorkspaceLocked(sess, id); locked {
		s.writeOpError(w, session.ErrLocked)
		return
	}
	if err := sess.EditNote(r.Context(), id, req.Title, req.Content); err != nil {
		s.writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleNoteDelete(w http.ResponseWriter, r *http.Request, sess *session.Session, userID string) {
	id := r.PathValue("noteId")
	if _, locked := s.noteWorkspaceLocked(sess, id); locked {
		s.writeOpError(w, session.ErrLocked)
		return
	}
	if err := sess.DeleteNote(r.Context(), id); err != nil {
		s.writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) noteWorkspaceLocked(sess *session.Session, noteID string) (string, bool) {
	db := sess.Snapshot()
	n, ok := db.FindNote(noteID)
	if !ok {
		return "", false
	}
	return n.WorkspaceID, sess.IsLocked(n.WorkspaceID)
}

// --- Lock ------------------------------------------------------------------

func (s *Server) handleLockSet(w http.ResponseWriter, r *http.Request, sess *session.Session, userID string) {
	var req struct {
		Password string `json:"password"`
		Hint     string `json:"hint"`
	}
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	codes, err := sess.SetNotesPassword(r.Context(), r.PathValue("workspaceId"), req.Password, req.Hint)
	if err != nil {
		s.writeOpError(w, err)
		return
	}
	// The codes appear in this response only; the server keeps digests.
	writeJSON(w, http.StatusOK, map[string]any{"backupCodes": codes})
}

func (s *Server) handleLockRemove(w http.ResponseWriter, r *http.Request, sess *session.Session, userID string) {
	workspaceID := r.PathValue("workspaceId")
	if sess.IsLocked(workspaceID) {
		s.writeOpError(w, session.ErrLocked)
		return
	}
	if err := sess.RemoveNotesPassword(r.Context(), workspaceID); err != nil {
		s.writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleUnlock(w http.ResponseWriter, r *http.Request, sess *session.Session, userID string) {
	var req struct {
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	workspaceID := r.PathValue("workspaceId")
	key := userID + "/" + workspaceID

	if sess.UnlockWithPassword(workspaceID, req.Password) {
		s.mu.Lock()
		delete(s.failed, key)
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	s.mu.Lock()
	s.failed[key]++
	attempts := s.failed[key]
	s.mu.Unlock()

	resp := map[string]any{"ok": false, "attempts": attempts}
	if attempts >= hintRevealThreshold {
		if hint := sess.PasswordHint(workspaceID); hint != "" {
			resp["hint"] = hint
		}
	}
	writeJSON(w, http.StatusUnauthorized, resp)
}

func (s *Server) handleUnlockCode(w http.ResponseWriter, r *http.Request, sess *session.Session, userID string) {
	var req struct {
		Code string `json:"code"`
	}
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	workspaceID := r.PathValue("workspaceId")
	if !sess.UnlockWithBackupCode(r.Context(), workspaceID, req.Code) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"ok": false})
		return
	}
	s.mu.Lock()
	delete(s.failed, userID+"/"+workspaceID)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "mustResetPassword": true})
}

// --- Suggestions -----------------------------------------------------------

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request, sess *session.Session, userID string) {
	if s.suggest == nil {
		jsonError(w, http.StatusNotImplemented, "suggestions are not configured")
		return
	}
	ws := sess.ActiveWorkspace()
	suggestions := s.suggest.Tasks(r.Context(), ws.Name, sess.Tasks(ws.ID))
	if suggestions == nil {
		suggestions = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}
