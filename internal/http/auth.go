package http

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"

	"sales-console/internal/backend"
)

// Field validation runs before any network call; a failed check blocks
// submission and renders per-field messages.

func validEmail(email string) bool {
	_, err := mail.ParseAddress(strings.TrimSpace(email))
	return err == nil
}

type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

func (f loginForm) validate() map[string]string {
	errs := map[string]string{}
	if !validEmail(f.Email) {
		errs["email"] = "Email inválido"
	}
	if len(f.Password) < 6 {
		errs["password"] = "La contraseña debe tener al menos 6 caracteres"
	}
	return errs
}

func (h *Handler) loginPage(c *gin.Context) {
	if h.store.IsAuthenticated() && h.validSessionCookie(c) {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	data := gin.H{}
	if c.Query("registered") == "1" {
		data["Notice"] = "Cuenta creada. Ya puedes iniciar sesión."
	}
	c.HTML(http.StatusOK, "login.html", data)
}

func (h *Handler) login(c *gin.Context) {
	var form loginForm
	_ = c.ShouldBind(&form)

	if errs := form.validate(); len(errs) > 0 {
		c.HTML(http.StatusOK, "login.html", gin.H{"FieldErrors": errs, "Email": form.Email})
		return
	}

	auth, err := h.client.Login(c.Request.Context(), strings.TrimSpace(form.Email), form.Password)
	if err != nil {
		h.logger.Warnf("login failed: %v", err)
		c.HTML(http.StatusOK, "login.html", gin.H{"Error": "Error al iniciar sesión", "Email": form.Email})
		return
	}

	if err := h.store.Login(c.Request.Context(), auth.AccessToken, auth.User); err != nil {
		h.logger.Errorf("persist session: %v", err)
		c.HTML(http.StatusOK, "login.html", gin.H{"Error": "Error al iniciar sesión", "Email": form.Email})
		return
	}
	if err := h.issueSessionCookie(c, auth.User.ID); err != nil {
		h.logger.Errorf("issue session cookie: %v", err)
		c.HTML(http.StatusOK, "login.html", gin.H{"Error": "Error al iniciar sesión", "Email": form.Email})
		return
	}

	h.logger.Infof("user %d logged in", auth.User.ID)
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

type registerForm struct {
	Name     string `form:"name"`
	Email    string `form:"email"`
	Password string `form:"password"`
}

func (f registerForm) validate() map[string]string {
	errs := map[string]string{}
	if len(strings.TrimSpace(f.Name)) < 2 {
		errs["name"] = "El nombre debe tener al menos 2 caracteres"
	}
	if !validEmail(f.Email) {
		errs["email"] = "Email inválido"
	}
	if len(f.Password) < 6 {
		errs["password"] = "La contraseña debe tener al menos 6 caracteres"
	}
	return errs
}

func (h *Handler) registerPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{})
}

func (h *Handler) register(c *gin.Context) {
	var form registerForm
	_ = c.ShouldBind(&form)

	if errs := form.validate(); len(errs) > 0 {
		c.HTML(http.StatusOK, "register.html", gin.H{
			"FieldErrors": errs,
			"Name":        form.Name,
			"Email":       form.Email,
		})
		return
	}

	err := h.client.Register(c.Request.Context(), strings.TrimSpace(form.Name), strings.TrimSpace(form.Email), form.Password)
	if err != nil {
		h.logger.Warnf("register failed: %v", err)
		c.HTML(http.StatusOK, "register.html", gin.H{
			"Error": "Error al registrar la cuenta",
			"Name":  form.Name,
			"Email": form.Email,
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/login?registered=1")
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.store.Logout(c.Request.Context()); err != nil {
		h.logger.Warnf("logout: %v", err)
	}
	h.clearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, "/login")
}

type profileForm struct {
	Name            string `form:"name"`
	Email           string `form:"email"`
	CurrentPassword string `form:"currentPassword"`
	NewPassword     string `form:"newPassword"`
	ConfirmPassword string `form:"confirmPassword"`
}

func (f profileForm) validate() map[string]string {
	errs := map[string]string{}
	if len(strings.TrimSpace(f.Name)) < 2 {
		errs["name"] = "El nombre debe tener al menos 2 caracteres"
	}
	if !validEmail(f.Email) {
		errs["email"] = "Email inválido"
	}
	if f.NewPassword != "" {
		if f.NewPassword != f.ConfirmPassword {
			errs["confirmPassword"] = "Las contraseñas no coinciden"
		}
		if f.CurrentPassword == "" {
			errs["currentPassword"] = "Debes ingresar tu contraseña actual para cambiarla"
		}
	}
	return errs
}

func (h *Handler) profilePage(c *gin.Context) {
	user, err := h.client.Profile(c.Request.Context())
	if err != nil {
		if h.dropSession(c, err) {
			return
		}
		h.logger.Warnf("load profile: %v", err)
		c.HTML(http.StatusOK, "profile.html", gin.H{"Error": "Error al cargar datos del perfil"})
		return
	}
	h.store.SetUser(user)
	c.HTML(http.StatusOK, "profile.html", gin.H{"Name": user.Name, "Email": user.Email})
}

func (h *Handler) updateProfile(c *gin.Context) {
	var form profileForm
	_ = c.ShouldBind(&form)

	if errs := form.validate(); len(errs) > 0 {
		c.HTML(http.StatusOK, "profile.html", gin.H{
			"FieldErrors": errs,
			"Name":        form.Name,
			"Email":       form.Email,
		})
		return
	}

	user := h.store.User()
	if user == nil {
		fetched, err := h.client.Profile(c.Request.Context())
		if err != nil {
			if h.dropSession(c, err) {
				return
			}
			c.HTML(http.StatusOK, "profile.html", gin.H{"Error": "Error al cargar datos del perfil"})
			return
		}
		h.store.SetUser(fetched)
		user = &fetched
	}

	update := backend.UserUpdate{
		Name:  strings.TrimSpace(form.Name),
		Email: strings.TrimSpace(form.Email),
	}
	if form.NewPassword != "" {
		update.CurrentPassword = form.CurrentPassword
		update.NewPassword = form.NewPassword
	}

	updated, err := h.client.UpdateUser(c.Request.Context(), user.ID, update)
	if err != nil {
		if h.dropSession(c, err) {
			return
		}
		h.logger.Warnf("update profile: %v", err)
		c.HTML(http.StatusOK, "profile.html", gin.H{
			"Error": "Error al actualizar el perfil",
			"Name":  form.Name,
			"Email": form.Email,
		})
		return
	}

	h.store.SetUser(updated)
	c.HTML(http.StatusOK, "profile.html", gin.H{
		"Notice": "Perfil actualizado correctamente",
		"Name":   updated.Name,
		"Email":  updated.Email,
	})
}
