package repository

import "github.com/linskybing/rfp-portal/internal/recordstore"

//go:generate mockgen -destination=mock/repository_mock.go -package=mock . AuditRepo,DraftRepo,SubmissionRepo,VendorRepo

// DefaultScanLimit bounds the page fetched when re-filtering by owner.
const DefaultScanLimit = 1000

type Repos struct {
	Vendor     VendorRepo
	Draft      DraftRepo
	Submission SubmissionRepo
	Audit      AuditRepo
}

func NewRepositories(store recordstore.Store, scanLimit int) *Repos {
	if scanLimit <= 0 {
		scanLimit = DefaultScanLimit
	}
	return &Repos{
		Vendor:     NewVendorRepo(store),
		Draft:      NewDraftRepo(store, scanLimit),
		Submission: NewSubmissionRepo(store, scanLimit),
		Audit:      NewAuditRepo(store),
	}
}
