package mocks

import (
	"context"
	"io"
	"time"

	"medvault/internal/model"
	"medvault/internal/service"
	"medvault/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, req service.UploadRequest) ([]model.Document, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, id string) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Search(ctx context.Context, patientName, category string) ([]model.Document, error) {
	args := m.Called(ctx, patientName, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) Download(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, *model.Document, error) {
	args := m.Called(ctx, id)
	var rc io.ReadCloser
	if args.Get(0) != nil {
		rc = args.Get(0).(io.ReadCloser)
	}
	var doc *model.Document
	if args.Get(2) != nil {
		doc = args.Get(2).(*model.Document)
	}
	return rc, args.Get(1).(storage.ObjectInfo), doc, args.Error(3)
}

func (m *MockDocumentService) PresignDownload(ctx context.Context, id string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, id, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentService) UpdateMetadata(ctx context.Context, id string, category, patientName *string) (*model.Document, error) {
	args := m.Called(ctx, id, category, patientName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) ReplaceContent(ctx context.Context, id string, file service.FileUpload) (*model.Document, *model.Version, error) {
	args := m.Called(ctx, id, file)
	var doc *model.Document
	if args.Get(0) != nil {
		doc = args.Get(0).(*model.Document)
	}
	var v *model.Version
	if args.Get(1) != nil {
		v = args.Get(1).(*model.Version)
	}
	return doc, v, args.Error(2)
}

func (m *MockDocumentService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
