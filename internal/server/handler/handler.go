package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"github.com/csheth/pdfask/internal/controller"
	"github.com/csheth/pdfask/internal/locale"
	"github.com/csheth/pdfask/internal/pdftext"
	"github.com/csheth/pdfask/internal/render"
	"github.com/csheth/pdfask/internal/server/middleware"
	"github.com/csheth/pdfask/internal/session"
	"github.com/csheth/pdfask/internal/signal"
)

const (
	// MaxUpload bounds the multipart body.
	MaxUpload = 32 << 20

	pdfMIME = "application/pdf"
)

// Extractor turns an uploaded PDF into page text.
type Extractor func(r io.Reader) (pdftext.Document, error)

// Handler serves the browser page and its form posts.
type Handler struct {
	store   *session.Store
	ctrl    controller.Controller
	loc     locale.Locale
	extract Extractor
}

// New builds the handler. A nil extract uses pdftext.ExtractReader.
func New(store *session.Store, ctrl controller.Controller, extract Extractor) *Handler {
	if extract == nil {
		extract = pdftext.ExtractReader
	}
	return &Handler{store: store, ctrl: ctrl, loc: ctrl.Locale, extract: extract}
}

// stateOf returns the state attached by the session middleware, or a
// throwaway one when the route was mounted without it.
func stateOf(c *gin.Context) *session.State {
	if state, ok := middleware.State(c); ok {
		return state
	}
	return &session.State{}
}

func (h *Handler) pageData(state *session.State, res controller.Result) render.PageData {
	snap := state.Snapshot()
	return render.PageData{
		Lang:             h.loc.Code,
		Title:            h.loc.Title,
		Disclaimer:       h.loc.Disclaimer,
		CredentialPrompt: h.loc.CredentialPrompt,
		HasCredential:    snap.Credential != "",
		UploadPrompt:     h.loc.UploadPrompt,
		SelectionLabel:   h.loc.SelectionLabel,
		SelectedEcho:     h.loc.SelectedEcho,
		CategoryPrompt:   h.loc.CategoryPrompt,
		Categories:       h.loc.Categories,
		Category:         h.loc.Category(snap.Category),
		GenerateLabel:    h.loc.GenerateLabel,
		BusyText:         h.loc.BusyText,
		PagesLabel:       h.loc.PagesLabel,
		ResetLabel:       h.loc.ResetLabel,
		FileName:         snap.FileName,
		Pages:            snap.Pages,
		Document:         snap.Text,
		Selection:        snap.Selection,
		Warning:          res.Warning,
		AnswerHeading:    res.Heading,
		Answer:           res.Answer,
	}
}

func (h *Handler) writePage(c *gin.Context, status int, data render.PageData) {
	var buf bytes.Buffer
	if err := render.Page(&buf, data); err != nil {
		log.Printf("render page: %v", err)
		c.String(http.StatusInternalServerError, "render error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

// Page renders the current session without any answer.
func (h *Handler) Page(c *gin.Context) {
	state := stateOf(c)
	h.writePage(c, http.StatusOK, h.pageData(state, controller.Result{}))
}

// Upload replaces the session document with the uploaded PDF's text.
func (h *Handler) Upload(c *gin.Context) {
	state := stateOf(c)
	fail := func(status int, msg string) {
		data := h.pageData(state, controller.Result{})
		data.Error = msg
		h.writePage(c, status, data)
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUpload)
	if err := c.Request.ParseMultipartForm(MaxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		fail(http.StatusBadRequest, "invalid multipart payload")
		return
	}
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		fail(http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		fail(http.StatusBadRequest, "could not read upload")
		return
	}
	if !mtype.Is(pdfMIME) {
		fail(http.StatusUnsupportedMediaType, "expected "+pdfMIME+", got "+mtype.String())
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		fail(http.StatusBadRequest, "could not read upload")
		return
	}
	doc, err := h.extract(io.LimitReader(file, MaxUpload))
	if err != nil {
		log.Printf("extract %s: %v", header.Filename, err)
		fail(http.StatusUnprocessableEntity, err.Error())
		return
	}
	controller.Apply(state, signal.Event{Kind: signal.KindDocument, Text: doc.Text()})
	name := filepath.Base(header.Filename)
	state.Update(func(s *session.State) {
		s.FileName = name
		s.Pages = doc.PageCount()
		s.Warning = ""
	})
	c.Redirect(http.StatusSeeOther, "/")
}

// Reset forgets the caller's session and clears its cookie.
func (h *Handler) Reset(c *gin.Context) {
	if id, err := c.Cookie(middleware.CookieName); err == nil {
		h.store.Delete(id)
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}

// Ask runs one render cycle with the submitted form values.
func (h *Handler) Ask(c *gin.Context) {
	state := stateOf(c)
	snap := state.Snapshot()

	credential := c.PostForm("credential")
	if credential == "" {
		credential = snap.Credential
	}
	selection, ok := c.GetPostForm("selection")
	if !ok {
		selection = snap.Selection
	}
	category := c.PostForm("category")
	if category == "" {
		category = snap.Category
	}
	pressed, _ := strconv.ParseBool(c.PostForm("pressed"))

	// A dropped connection does not abort a generation already sent.
	ctx := context.WithoutCancel(c.Request.Context())
	res := h.ctrl.Run(ctx, state, controller.Inputs{
		Credential: credential,
		Selection:  selection,
		Category:   h.loc.Category(category),
		Pressed:    pressed,
	})
	h.writePage(c, http.StatusOK, h.pageData(state, res))
}

type signalRequest struct {
	Kind string `json:"kind" binding:"required"`
	Text string `json:"text"`
}

// Signal accepts selection and trigger events from the page script.
func (h *Handler) Signal(c *gin.Context) {
	var req signalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid signal payload"})
		return
	}
	kind, err := signal.ParseKind(req.Kind)
	if err != nil || kind == signal.KindDocument {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unsupported signal kind"})
		return
	}
	state := stateOf(c)
	controller.Apply(state, signal.Event{Kind: kind, Text: req.Text})
	snap := state.Snapshot()
	c.JSON(http.StatusAccepted, gin.H{
		"kind":      kind,
		"trigger":   snap.Trigger,
		"selection": snap.Selection,
	})
}
