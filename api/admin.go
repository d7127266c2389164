package api

import (
	"github.com/juju/errors"
	"net/http"
	"shipment-tracking-service/audit"
	"shipment-tracking-service/models"
	"shipment-tracking-service/repositories"
	"strconv"
	"strings"
	"time"
)

func (s *Server) dashboardStats(w http.ResponseWriter, r *http.Request) {
	today := s.clock.Now().UTC().Truncate(24 * time.Hour)
	stats, err := s.repo.Stats(r.Context(), today)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, "", stats)
}

type userInput struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	FullName *string     `json:"full_name"`
	Role     models.Role `json:"role"`
	Team     *string     `json:"team"`
	IsActive *bool       `json:"is_active"`
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.repo.ListUsers(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, "", users)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var in userInput
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	in.Role = models.Role(strings.ToUpper(string(in.Role)))
	email := strings.ToLower(strings.TrimSpace(in.Email))
	switch {
	case email == "":
		s.fail(w, r, errors.NotValidf("missing email"))
		return
	case !in.Role.Valid():
		s.fail(w, r, errors.NotValidf("role %q", in.Role))
		return
	}

	user := &models.User{
		Username: strings.TrimSpace(in.Username),
		Email:    email,
		Role:     in.Role,
		IsActive: true,
	}
	if in.FullName != nil {
		user.FullName = *in.FullName
	}
	if in.Team != nil {
		user.Team = *in.Team
	}
	if err := s.repo.CreateUser(r.Context(), user, in.Password); err != nil {
		s.fail(w, r, err)
		return
	}
	s.audit(r, audit.Entry{
		Action:     audit.ActionCreate,
		EntityType: "user",
		EntityID:   ref(user.ID),
		New:        user,
	})
	ok(w, http.StatusCreated, "User created", user)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in userInput
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}

	updates := map[string]any{}
	if in.Role != "" {
		role := models.Role(strings.ToUpper(string(in.Role)))
		if !role.Valid() {
			s.fail(w, r, errors.NotValidf("role %q", in.Role))
			return
		}
		updates["role"] = role
	}
	if in.Team != nil {
		updates["team"] = *in.Team
	}
	if in.FullName != nil {
		updates["full_name"] = *in.FullName
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if len(updates) == 0 {
		s.fail(w, r, errors.NotValidf("empty update"))
		return
	}

	before, err := s.repo.GetUser(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.repo.UpdateUser(r.Context(), id, updates); err != nil {
		s.fail(w, r, err)
		return
	}
	after, err := s.repo.GetUser(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.audit(r, audit.Entry{
		Action:     audit.ActionUpdate,
		EntityType: "user",
		EntityID:   ref(id),
		Old:        before,
		New:        after,
	})
	ok(w, http.StatusOK, "User updated", after)
}

func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := models.NotificationStatus(strings.ToUpper(q.Get("status")))
	if status != "" && !status.Valid() {
		s.fail(w, r, errors.NotValidf("status %q", status))
		return
	}
	limit, err := queryUint(r, "limit")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ns, err := s.repo.ListNotifications(r.Context(), status, int(limit))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, "", ns)
}

// markNotification records a delivery outcome reported by the dispatch service.
func (s *Server) markNotification(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in struct {
		Status       models.NotificationStatus `json:"status"`
		ErrorMessage string                    `json:"error_message"`
	}
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	in.Status = models.NotificationStatus(strings.ToUpper(string(in.Status)))
	if in.Status != models.NotificationSent && in.Status != models.NotificationFailed {
		s.fail(w, r, errors.NotValidf("status %q", in.Status))
		return
	}

	if err := s.repo.MarkNotification(r.Context(), id, in.Status, in.ErrorMessage, s.clock.Now()); err != nil {
		s.fail(w, r, err)
		return
	}
	n, err := s.repo.GetNotification(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.audit(r, audit.Entry{
		ShipmentID: n.ShipmentID,
		Action:     audit.ActionUpdate,
		EntityType: "notification",
		EntityID:   ref(id),
		New:        n,
	})
	ok(w, http.StatusOK, "Notification updated", n)
}

func (s *Server) listAudit(w http.ResponseWriter, r *http.Request) {
	var filter repositories.AuditFilter
	for name, dst := range map[string]*uint{
		"shipment_id": &filter.ShipmentID,
		"entity_id":   &filter.EntityID,
	} {
		v, err := queryUint(r, name)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		*dst = v
	}
	limit, err := queryUint(r, "limit")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	filter.Limit = int(limit)
	filter.EntityType = r.URL.Query().Get("entity_type")

	entries, err := s.repo.ListAuditLogs(r.Context(), filter)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, http.StatusOK, "", entries)
}

func queryUint(r *http.Request, name string) (uint, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.NotValidf("%s %q", name, raw)
	}
	return uint(v), nil
}
