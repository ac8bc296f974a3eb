package handlers

import (
	"log/slog"
	"time"

	"github.com/linskybing/rfp-portal/internal/application"
)

type Options struct {
	Production bool
	TokenTTL   time.Duration
	Logger     *slog.Logger
}

type Handlers struct {
	svc        *application.Services
	production bool
	tokenTTL   time.Duration
	logger     *slog.Logger

	Auth       *AuthHandler
	Draft      *DraftHandler
	Submission *SubmissionHandler
	QA         *QAHandler
	Admin      *AdminHandler
}

func New(svc *application.Services, opts Options) *Handlers {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	h := &Handlers{svc: svc, production: opts.Production, tokenTTL: opts.TokenTTL, logger: opts.Logger}
	h.Auth = &AuthHandler{h: h, svc: svc.Identity}
	h.Draft = &DraftHandler{h: h, svc: svc.Draft}
	h.Submission = &SubmissionHandler{h: h, svc: svc.Submission, approval: svc.Approval}
	h.QA = &QAHandler{h: h, svc: svc.QA}
	h.Admin = &AdminHandler{h: h, svc: svc.Approval, audit: svc.Audit}
	return h
}
