package routes

import (
	"embed"
	"encoding/base64"
	"errors"
	"html/template"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tutoring_back_end_go/auth"
	"tutoring_back_end_go/models"
)

const maxPhotoBytes = 5 << 20

//go:embed templates/*.html
var templates embed.FS

type loginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

type registerRequest struct {
	FirstName string   `form:"firstName" json:"firstName" binding:"required"`
	LastName  string   `form:"lastName" json:"lastName" binding:"required"`
	Email     string   `form:"email" json:"email" binding:"required,email"`
	Phone     string   `form:"phone" json:"phone" binding:"required"`
	Username  string   `form:"username" json:"username" binding:"required"`
	Password  string   `form:"password" json:"password" binding:"required"`
	DOB       string   `form:"dob" json:"dob"`
	Subjects  []string `form:"subjects" json:"subjects"`
}

func (r registerRequest) account() models.Account {
	acct := models.Account{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Username:  r.Username,
		Subjects:  r.Subjects,
	}
	if r.DOB != "" {
		dob := r.DOB
		acct.DOB = &dob
	}
	return acct
}

type registerTutorRequest struct {
	registerRequest
	Background     string `form:"background" json:"background"`
	Bio            string `form:"bio" json:"bio"`
	Rates          int    `form:"rates" json:"rates"`
	TeachingMethod string `form:"teachingMethod" json:"teachingMethod" binding:"required"`
	Area           string `form:"area" json:"area"`
}

// profileView is what the profile page renders. Tutor-only fields are
// left empty for students.
type profileView struct {
	Name           string
	Email          string
	Phone          string
	Username       string
	DOB            string
	Subjects       []string
	IsTutor        bool
	Photo          template.URL
	Background     string
	Bio            string
	Rates          int
	TeachingMethod string
	Area           string
}

func newProfileView(user models.User) profileView {
	acct := user.Identity()
	view := profileView{
		Name:     acct.FullName(),
		Email:    acct.Email,
		Phone:    acct.Phone,
		Username: acct.Username,
		Subjects: acct.Subjects,
	}
	if acct.DOB != nil {
		view.DOB = *acct.DOB
	}

	if tutor, ok := user.(*models.Tutor); ok {
		view.IsTutor = true
		view.Background = tutor.Background
		view.Bio = tutor.Bio
		view.Rates = tutor.HourlyRate
		view.TeachingMethod = string(tutor.TeachingMethod)
		view.Area = tutor.Area
		if len(tutor.ProfilePhoto) > 0 {
			mime := http.DetectContentType(tutor.ProfilePhoto)
			view.Photo = template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(tutor.ProfilePhoto))
		}
	}
	return view
}

func SetupAccountRoutes(r *gin.Engine, h *Handlers) {
	r.SetHTMLTemplate(template.Must(template.ParseFS(templates, "templates/*.html")))

	r.POST("/login", h.login)
	r.GET("/logout", h.logout)
	r.GET("/profile", h.profile)
	r.GET("/my-lessons", auth.RequireRole(models.KindTutor, models.KindStudent), h.myLessons)
	r.POST("/register-student", h.registerStudent)
	r.POST("/register-tutor", h.registerTutor)
}

func (h *Handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.Logger.Debug("Malformed login request", zap.Error(err))
		c.Redirect(http.StatusFound, "/login.html?error="+url.QueryEscape("Invalid login request"))
		return
	}

	p, err := h.Accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			c.Redirect(http.StatusFound, "/login.html?error="+url.QueryEscape("Invalid email or password"))
			return
		}
		h.respondError(c, err)
		return
	}

	if err := h.Sessions.Issue(c, p); err != nil {
		h.respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/dashboard.html")
}

func (h *Handlers) logout(c *gin.Context) {
	h.Sessions.Clear(c)
	c.Redirect(http.StatusFound, "/login.html")
}

func (h *Handlers) profile(c *gin.Context) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login.html")
		return
	}

	user, err := h.Accounts.Profile(c.Request.Context(), p)
	if err != nil {
		if errors.Is(err, models.ErrUnauthenticated) {
			h.Sessions.Clear(c)
			c.Redirect(http.StatusFound, "/login.html")
			return
		}
		h.respondError(c, err)
		return
	}

	c.HTML(http.StatusOK, "profile.html", newProfileView(user))
}

func (h *Handlers) myLessons(c *gin.Context) {
	lessons, err := h.Accounts.MyLessons(c.Request.Context(), principal(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lessons)
}

func (h *Handlers) registerStudent(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		h.respondError(c, bindError(err, "Invalid registration data"))
		return
	}

	req.Subjects = formSubjects(c, req.Subjects)
	student := &models.Student{Account: req.account()}
	if err := h.Registration.RegisterStudent(c.Request.Context(), student, req.Password); err != nil {
		h.respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/login.html")
}

func (h *Handlers) registerTutor(c *gin.Context) {
	var req registerTutorRequest
	if err := c.ShouldBind(&req); err != nil {
		h.respondError(c, bindError(err, "Invalid registration data"))
		return
	}

	req.Subjects = formSubjects(c, req.Subjects)
	photo, err := readPhoto(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	tutor := &models.Tutor{
		Account:        req.account(),
		ProfilePhoto:   photo,
		Background:     req.Background,
		Bio:            req.Bio,
		HourlyRate:     req.Rates,
		TeachingMethod: models.LessonType(req.TeachingMethod),
		Area:           req.Area,
	}
	if err := h.Registration.RegisterTutor(c.Request.Context(), tutor, req.Password); err != nil {
		h.respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/login.html")
}

// formSubjects falls back to the bracketed subjects[] field that HTML
// forms post for multi-value inputs.
func formSubjects(c *gin.Context, subjects []string) []string {
	if len(subjects) > 0 {
		return subjects
	}
	if arr := c.PostFormArray("subjects[]"); len(arr) > 0 {
		return arr
	}
	return subjects
}

// readPhoto returns the optional profilePhoto upload.
func readPhoto(c *gin.Context) ([]byte, error) {
	fh, err := c.FormFile("profilePhoto")
	if err != nil {
		return nil, nil
	}
	if fh.Size > maxPhotoBytes {
		return nil, models.Invalid("profilePhoto", "profile photo is too large")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, models.Invalid("profilePhoto", "profile photo could not be read")
	}
	defer f.Close()

	return io.ReadAll(io.LimitReader(f, maxPhotoBytes))
}
