package resolver

import (
	"context"

	"github.com/stretchr/testify/mock"

	"bookmeta/internal/entity"
)

type mockISBNSource struct{ mock.Mock }

func (m *mockISBNSource) LookupByISBN(ctx context.Context, isbn string) (string, bool) {
	args := m.Called(ctx, isbn)
	return args.String(0), args.Bool(1)
}

type mockMatchSource struct{ mock.Mock }

func (m *mockMatchSource) Match(ctx context.Context, title, author string) (entity.Resolution, bool) {
	args := m.Called(ctx, title, author)
	return args.Get(0).(entity.Resolution), args.Bool(1)
}

type mockImageSource struct{ mock.Mock }

func (m *mockImageSource) FindImage(ctx context.Context, title, author string) (string, bool) {
	args := m.Called(ctx, title, author)
	return args.String(0), args.Bool(1)
}

type mockService struct{ mock.Mock }

func (m *mockService) Resolve(ctx context.Context, q entity.Query) entity.Resolution {
	args := m.Called(ctx, q)
	return args.Get(0).(entity.Resolution)
}
