package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/blackwell-systems/codepulse/internal/aggregate"
	"github.com/blackwell-systems/codepulse/internal/event"
	"github.com/blackwell-systems/codepulse/internal/ingest"
	"github.com/blackwell-systems/codepulse/internal/query"
	"github.com/blackwell-systems/codepulse/internal/store"
)

// envelope is the {success, ...} response shape every /api route uses.
type envelope map[string]any

// fail maps a service error to its HTTP status and body. Validation
// failures are the client's fault, an unknown user is a 404, and anything
// else is an internal error that must not leak details.
func (s *Server) fail(c echo.Context, err error) error {
	var batchErr *ingest.BatchError
	var valErr *event.ValidationError
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, envelope{"success": false, "message": "User not found"})
	case errors.As(err, &batchErr):
		s.metrics.BatchesRejected.WithLabelValues("validation").Inc()
		return c.JSON(http.StatusBadRequest, envelope{
			"success": false,
			"message": batchErr.Error(),
			"index":   batchErr.Index,
			"fields":  batchErr.Err.Fields,
		})
	case errors.As(err, &valErr):
		return c.JSON(http.StatusBadRequest, envelope{
			"success": false,
			"message": valErr.Error(),
			"fields":  valErr.Fields,
		})
	default:
		s.logger.Error("request failed",
			zap.String("route", c.Path()),
			zap.Error(err),
		)
		return c.JSON(http.StatusInternalServerError, envelope{"success": false, "message": "Internal server error"})
	}
}

func missingUsername(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, envelope{"success": false, "message": "Username is required"})
}

// username resolves the user from the query string.
func username(c echo.Context) string {
	return c.QueryParam("username")
}

// intParam parses an optional positive integer query parameter; anything
// absent or unparseable comes back as zero, which the query layer treats
// as "use the default".
func intParam(c echo.Context, name string) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// RecordRequest is the body for POST /api/activities.
type RecordRequest struct {
	Username   string           `json:"username"`
	Activities []event.Activity `json:"activities"`
}

func (s *Server) handleRecord(c echo.Context) error {
	var req RecordRequest
	if err := c.Bind(&req); err != nil {
		s.metrics.BatchesRejected.WithLabelValues("malformed").Inc()
		return c.JSON(http.StatusBadRequest, envelope{"success": false, "message": "Username and activities array are required"})
	}
	if req.Username == "" || req.Activities == nil {
		s.metrics.BatchesRejected.WithLabelValues("malformed").Inc()
		return c.JSON(http.StatusBadRequest, envelope{"success": false, "message": "Username and activities array are required"})
	}

	result, err := s.ingest.Ingest(c.Request().Context(), req.Username, req.Activities)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.metrics.BatchesRejected.WithLabelValues("unknown_user").Inc()
		}
		return s.fail(c, err)
	}

	s.metrics.ActivitiesIngested.Add(float64(result.Accepted))
	return c.JSON(http.StatusCreated, envelope{
		"success":  true,
		"message":  strconv.Itoa(result.Accepted) + " activities recorded successfully",
		"accepted": result.Accepted,
	})
}

func (s *Server) handleActivities(c echo.Context) error {
	user := username(c)
	if user == "" {
		return missingUsername(c)
	}

	filter := store.ActivityFilter{
		Username: user,
		Type:     event.Type(c.QueryParam("type")),
		Limit:    intParam(c, "limit"),
	}
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, envelope{"success": false, "message": "from must be an RFC 3339 timestamp"})
		}
		filter.From = t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, envelope{"success": false, "message": "to must be an RFC 3339 timestamp"})
		}
		filter.To = t
	}

	activities, err := s.query.Activities(c.Request().Context(), filter)
	if err != nil {
		return s.fail(c, err)
	}
	if activities == nil {
		activities = []event.Activity{}
	}
	return c.JSON(http.StatusOK, envelope{"success": true, "activities": activities})
}

// DeleteRequest is the body for DELETE /api/activities.
type DeleteRequest struct {
	Username string `json:"username"`
	From     string `json:"from"`
	To       string `json:"to"`
}

func (s *Server) handleDelete(c echo.Context) error {
	var req DeleteRequest
	if err := c.Bind(&req); err != nil || req.Username == "" {
		return missingUsername(c)
	}

	var from, to time.Time
	if req.From != "" {
		t, err := time.Parse(time.RFC3339, req.From)
		if err != nil {
			return c.JSON(http.StatusBadRequest, envelope{"success": false, "message": "from must be an RFC 3339 timestamp"})
		}
		from = t
	}
	if req.To != "" {
		t, err := time.Parse(time.RFC3339, req.To)
		if err != nil {
			return c.JSON(http.StatusBadRequest, envelope{"success": false, "message": "to must be an RFC 3339 timestamp"})
		}
		to = t
	}

	deleted, err := s.query.Delete(c.Request().Context(), req.Username, from, to)
	if err != nil {
		return s.fail(c, err)
	}

	s.metrics.ActivitiesDeleted.Add(float64(deleted))
	return c.JSON(http.StatusOK, envelope{
		"success": true,
		"message": strconv.FormatInt(deleted, 10) + " activities deleted successfully",
		"deleted": deleted,
	})
}

func (s *Server) handleDailySummary(c echo.Context) error {
	user := username(c)
	if user == "" {
		return missingUsername(c)
	}

	summary, err := s.query.DailySummary(c.Request().Context(), user, intParam(c, "days"))
	if err != nil {
		return s.fail(c, err)
	}
	if summary == nil {
		summary = []aggregate.DailySummary{}
	}
	return c.JSON(http.StatusOK, envelope{"success": true, "summary": summary})
}

func (s *Server) handleStatistics(c echo.Context) error {
	user := username(c)
	if user == "" {
		return missingUsername(c)
	}

	stats, err := s.query.Summary(c.Request().Context(), user, query.Timeframe(c.QueryParam("timeframe")))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) handleLanguages(c echo.Context) error {
	return s.breakdown(c, aggregate.ByLanguage, "languages")
}

func (s *Server) handleProjects(c echo.Context) error {
	return s.breakdown(c, aggregate.ByProject, "projects")
}

func (s *Server) breakdown(c echo.Context, kind aggregate.BreakdownKind, key string) error {
	user := username(c)
	if user == "" {
		return missingUsername(c)
	}

	groups, err := s.query.Breakdown(c.Request().Context(), user, kind, intParam(c, "days"))
	if err != nil {
		return s.fail(c, err)
	}
	if groups == nil {
		groups = []aggregate.Breakdown{}
	}
	return c.JSON(http.StatusOK, envelope{"success": true, key: groups})
}

func (s *Server) handleFiles(c echo.Context) error {
	user := username(c)
	if user == "" {
		return missingUsername(c)
	}

	files, err := s.query.Files(c.Request().Context(), user, intParam(c, "days"), intParam(c, "limit"))
	if err != nil {
		return s.fail(c, err)
	}
	if files == nil {
		files = []aggregate.FileActivity{}
	}
	return c.JSON(http.StatusOK, envelope{"success": true, "files": files})
}

func (s *Server) handleHours(c echo.Context) error {
	user := username(c)
	if user == "" {
		return missingUsername(c)
	}

	hours, err := s.query.Hourly(c.Request().Context(), user, intParam(c, "days"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, envelope{"success": true, "hoursDistribution": hours})
}

func (s *Server) handleWeekdays(c echo.Context) error {
	user := username(c)
	if user == "" {
		return missingUsername(c)
	}

	weekdays, err := s.query.Weekday(c.Request().Context(), user, intParam(c, "days"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, envelope{"success": true, "weekdayDistribution": weekdays})
}

func (s *Server) handleProductivity(c echo.Context) error {
	user := username(c)
	if user == "" {
		return missingUsername(c)
	}

	scores, err := s.query.Productivity(c.Request().Context(), user, intParam(c, "days"))
	if err != nil {
		return s.fail(c, err)
	}
	if scores == nil {
		scores = []aggregate.ProductivityDay{}
	}
	return c.JSON(http.StatusOK, envelope{"success": true, "productivityScores": scores})
}

func (s *Server) handleStreaks(c echo.Context) error {
	user := username(c)
	if user == "" {
		return missingUsername(c)
	}

	streaks, err := s.query.Streak(c.Request().Context(), user)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, envelope{
		"success":         true,
		"currentStreak":   streaks.CurrentStreak,
		"longestStreak":   streaks.LongestStreak,
		"totalActiveDays": streaks.TotalActiveDays,
		"calendarData":    streaks.Calendar,
	})
}

func (s *Server) handleTrends(c echo.Context) error {
	user := username(c)
	if user == "" {
		return missingUsername(c)
	}

	interval := aggregate.Interval(c.QueryParam("interval"))
	trends, err := s.query.Trends(c.Request().Context(), user, interval, intParam(c, "days"))
	if err != nil {
		return s.fail(c, err)
	}
	if trends == nil {
		trends = []aggregate.TrendPoint{}
	}
	if interval == "" {
		interval = aggregate.IntervalDay
	}
	return c.JSON(http.StatusOK, envelope{
		"success":  true,
		"trends":   trends,
		"interval": interval,
	})
}

// HeartbeatRequest is the body for POST /api/heartbeat. The client's
// timestamp is accepted but last-active always reflects server time.
type HeartbeatRequest struct {
	Username  string `json:"username"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) handleHeartbeat(c echo.Context) error {
	var req HeartbeatRequest
	if err := c.Bind(&req); err != nil || req.Username == "" {
		return missingUsername(c)
	}

	if err := s.ingest.Heartbeat(c.Request().Context(), req.Username, time.Now()); err != nil {
		return s.fail(c, err)
	}

	s.metrics.HeartbeatsTotal.Inc()
	return c.JSON(http.StatusOK, envelope{"success": true})
}
