package render

import (
	"html/template"
	"io"
)

// PageData is everything the browser page shows for one session.
type PageData struct {
	Lang             string
	Title            string
	Disclaimer       string
	CredentialPrompt string
	HasCredential    bool
	UploadPrompt     string
	SelectionLabel   string
	SelectedEcho     string
	CategoryPrompt   string
	Categories       []string
	Category         string
	GenerateLabel    string
	BusyText         string
	PagesLabel       string
	ResetLabel       string

	FileName  string
	Pages     int
	Document  string
	Selection string

	Warning       string
	Error         string
	AnswerHeading string
	Answer        string
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body{font-family:sans-serif;margin:2rem;max-width:72rem}
.cols{display:flex;gap:2rem}
.cols>div{flex:1}
#document{height:400px;overflow-y:scroll;white-space:pre-wrap;border:1px solid #ccc;padding:.5rem}
.warning{background:#fff3cd;padding:.5rem}
.error{background:#f8d7da;padding:.5rem}
.disclaimer{border-bottom:1px solid #ccc;padding-bottom:.5rem}
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<h2 class="disclaimer">{{.Disclaimer}}</h2>
<form method="post" action="/upload" enctype="multipart/form-data">
<label>{{.UploadPrompt}} <input type="file" name="file" accept="application/pdf"></label>
<button type="submit">{{.UploadPrompt}}</button>
</form>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/reset"><button type="submit">{{.ResetLabel}}</button></form>
{{if .FileName}}<p>{{.FileName}} ({{.Pages}} {{.PagesLabel}})</p>
<div class="cols">
<div id="document">{{.Document}}</div>
<div>
<div id="highlight-area">{{if .Selection}}{{.SelectedEcho}}{{.Selection}}{{end}}</div>
<form id="ask" method="post" action="/ask">
<p><label>{{.CredentialPrompt}} <input type="password" name="credential" autocomplete="off"{{if .HasCredential}} placeholder="••••••••"{{end}}></label></p>
<p><label>{{.SelectionLabel}} <input type="text" id="selection" name="selection" value="{{.Selection}}"></label></p>
<p><label>{{.CategoryPrompt}} <select name="category">{{range .Categories}}
<option value="{{.}}"{{if eq . $.Category}} selected{{end}}>{{.}}</option>{{end}}
</select></label></p>
<input type="hidden" id="pressed" name="pressed" value="true">
<button type="submit" data-busy="{{.BusyText}}">{{.GenerateLabel}}</button>
</form>
{{if .Warning}}<p class="warning">{{.Warning}}</p>{{end}}
{{if .Answer}}<h3>{{.AnswerHeading}}</h3>
<div id="answer" style="white-space:pre-wrap">{{.Answer}}</div>{{end}}
</div>
</div>
<script>
(function () {
  var doc = document.getElementById("document");
  var field = document.getElementById("selection");
  var area = document.getElementById("highlight-area");
  var form = document.getElementById("ask");
  var echo = {{.SelectedEcho}};
  function send(kind, text) {
    return fetch("/api/v1/signal", {
      method: "POST",
      credentials: "same-origin",
      headers: {"Content-Type": "application/json"},
      body: JSON.stringify({kind: kind, text: text || ""})
    });
  }
  doc.addEventListener("mouseup", function () {
    var text = window.getSelection().toString().trim();
    if (!text) { return; }
    field.value = text;
    area.textContent = echo + text;
    send("selection", text);
  });
  document.addEventListener("keydown", function (e) {
    if (e.key !== "r" && e.key !== "R") { return; }
    var tag = (e.target && e.target.tagName) || "";
    if (tag === "INPUT" || tag === "SELECT" || tag === "TEXTAREA") { return; }
    send("trigger").then(function () {
      document.getElementById("pressed").value = "false";
      form.submit();
    });
  });
  form.addEventListener("submit", function () {
    var btn = form.querySelector("button");
    btn.textContent = btn.getAttribute("data-busy");
  });
})();
</script>
{{end}}
</body>
</html>
`))

// Page writes the browser page for data.
func Page(w io.Writer, data PageData) error {
	return pageTemplate.Execute(w, data)
}
