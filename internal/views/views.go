// Package views renders the server-side HTML pages.
package views

import (
	"html/template"
	"net/http"

	"github.com/slothcave/members-portal/internal/models"
)

// HomeData is the data for the home page
type HomeData struct {
	LoggedIn bool
	Name     string
}

// SignupData carries the inline message flags for the signup form
type SignupData struct {
	Blank   bool
	Invalid bool
}

// LoginData carries the inline message flags for the login form
type LoginData struct {
	Blank         bool
	Invalid       bool
	Incorrect     bool
	IncorrectPass bool
	NotLoggedIn   bool
}

// MembersData is the data for the members page
type MembersData struct {
	Name    string
	SlothID int
}

// SlothData is the data for a single sloth page
type SlothData struct {
	ID string
}

// AdminData is the data for the admin user list
type AdminData struct {
	Users []models.User
}

var templates = template.Must(template.New("views").Parse(pages))

// Render writes the named view with the given status code
func Render(w http.ResponseWriter, status int, name string, data any) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return templates.ExecuteTemplate(w, name, data)
}

const pages = `
{{define "home"}}
{{if .LoggedIn}}
<h1>Hello {{.Name}}</h1>
<br>
<form action="/members">
<button type="submit">Visit Member's Section</button>
</form>
<form action="/logout">
<button type="submit">Log Out</button>
</form>
{{else}}
<form action="/login">
<button type="submit">Log In</button>
</form>
<form action="/signup">
<button type="submit">Sign Up</button>
</form>
{{end}}
{{end}}

{{define "signup"}}
Create your user here
<br>
<form action='/submitUser' method='post'>
<input name='name' type='text' placeholder='username' required>
<br>
<input name='email' type='text' placeholder='email' required>
<br>
<input name='password' type='password' placeholder='password' required>
<br>
<button>Submit</button>
</form>
{{if .Blank}}Field is blank. Retry.{{end}}
{{if .Invalid}}Field is not valid. Retry.{{end}}
{{end}}

{{define "login"}}
log in
<form action='/loggingin' method='post'>
<input name='name' type='text' placeholder='username' required>
<br>
<input name='password' type='password' placeholder='password' required>
<br>
<button>Submit</button>
</form>
{{if .Incorrect}}Wrong User value..{{end}}
{{if .IncorrectPass}}Wrong Password.{{end}}
{{if .Blank}}Field is blank.{{end}}
{{if .Invalid}}Format is not valid.{{end}}
{{if .NotLoggedIn}}You must log in.{{end}}
{{end}}

{{define "members"}}
<h1>Hello {{.Name}}</h1>
<img src='/sloth{{.SlothID}}.gif' style='width:250px;'>
<form action="/">
<button type="submit">Return Home</button>
</form>
<form action="/logout">
<button type="submit">Log Out</button>
</form>
{{end}}

{{define "sloth"}}
{{if eq .ID "1"}}Enjoy: <img src='/flower.gif' style='width:250px;'>
{{else if eq .ID "2"}}Hmmmm...: <img src='/slothm.gif' style='width:250px;'>
{{else}}Yaaaaawn: <img src='/slothm.gif' style='width:250px;'>{{.ID}}
{{end}}
{{end}}

{{define "logout"}}
You are logged out.
<form action="/">
<button type="submit">Return Home</button>
</form>
{{end}}

{{define "admin"}}
<h1>All Users</h1>
<table border='1'>
<tr><th>ID</th><th>Name</th><th>Email</th><th>Role</th><th></th></tr>
{{range .Users}}
<tr>
<td>{{.ID}}</td>
<td>{{.Name}}</td>
<td>{{.Email}}</td>
<td>{{.Role}}</td>
<td>
{{if eq .Role "admin"}}
<form action='/demoteUser' method='post'>
<input type='hidden' name='userId' value='{{.ID}}'>
<button>Demote</button>
</form>
{{else}}
<form action='/promoteUser' method='post'>
<input type='hidden' name='userId' value='{{.ID}}'>
<button>Promote</button>
</form>
{{end}}
</td>
</tr>
{{end}}
</table>
<form action="/">
<button type="submit">Return Home</button>
</form>
{{end}}

{{define "forbidden"}}
Not authorized - 403
{{end}}

{{define "notfound"}}
Page not found - 404
{{end}}

{{define "error"}}
Something went wrong - 500
{{end}}
`
