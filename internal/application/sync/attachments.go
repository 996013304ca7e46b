package sync

import (
	"context"

	"go.uber.org/zap"

	"github.com/billsync/backend/internal/domain/accounting"
	"github.com/billsync/backend/internal/domain/billing"
)

// AttachmentStore resolves a stored attachment to its raw bytes
type AttachmentStore interface {
	// Fetch returns the file content for a storage key
	Fetch(ctx context.Context, storageKey string) ([]byte, error)
}

// AttachmentUploader pushes a request's linked files to the invoice created
// for it. Uploads are best effort: each file's failure is logged on its own
// and never rolls back the already-recorded invoice.
type AttachmentUploader struct {
	store   AttachmentStore
	gateway accounting.Gateway
	logger  *zap.Logger
}

// NewAttachmentUploader creates a new attachment uploader
func NewAttachmentUploader(store AttachmentStore, gateway accounting.Gateway, logger *zap.Logger) *AttachmentUploader {
	return &AttachmentUploader{
		store:   store,
		gateway: gateway,
		logger:  logger,
	}
}

// UploadAll uploads every attachment on the request to its invoice and
// returns the number of files uploaded successfully
func (u *AttachmentUploader) UploadAll(ctx context.Context, req *billing.PaymentRequest) int {
	uploaded := 0
	for _, att := range req.Attachments {
		data, err := u.store.Fetch(ctx, att.StorageKey)
		if err != nil {
			u.logger.Error("Failed to load attachment from storage",
				zap.String("request_id", req.ID.String()),
				zap.String("storage_key", att.StorageKey),
				zap.String("filename", att.Filename),
				zap.Error(err),
			)
			continue
		}

		if err := u.gateway.UploadAttachment(ctx, req.InvoiceID, att.Filename, data, att.MimeType); err != nil {
			u.logger.Error("Failed to upload attachment to invoice",
				zap.String("request_id", req.ID.String()),
				zap.String("invoice_id", req.InvoiceID),
				zap.String("filename", att.Filename),
				zap.Error(err),
			)
			continue
		}

		uploaded++
	}
	return uploaded
}
