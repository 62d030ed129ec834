package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/outdoor-rental/service-rental/internal/common/domain"
	productDomain "github.com/outdoor-rental/service-rental/internal/domain/product"
	settingsDomain "github.com/outdoor-rental/service-rental/internal/domain/settings"
)

func TestProductService_CRUD(t *testing.T) {
	repo := newMemProductRepo()
	svc := NewProductService(repo, zap.NewNop())
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, ProductRequest{
		Name:        "Carrier 60L",
		Category:    "tas",
		PricePerDay: decimal.NewFromInt(40000),
		Stock:       3,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{}, created.Images)

	got, err := svc.GetProduct(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Carrier 60L", got.Name)

	updated, err := svc.UpdateProduct(ctx, created.ID.String(), ProductRequest{
		Name:        "Carrier 65L",
		Category:    "tas",
		PricePerDay: decimal.NewFromInt(45000),
		Stock:       2,
		Images:      []string{"carrier.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Carrier 65L", updated.Name)
	assert.Equal(t, 2, updated.Stock)

	require.NoError(t, svc.DeleteProduct(ctx, created.ID.String()))

	_, err = svc.GetProduct(ctx, created.ID.String())
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
	err = svc.DeleteProduct(ctx, created.ID.String())
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestProductService_Validation(t *testing.T) {
	svc := NewProductService(newMemProductRepo(), zap.NewNop())
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, ProductRequest{Name: "Tenda", Category: "tenda", PricePerDay: decimal.NewFromInt(-1)})
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	_, err = svc.CreateProduct(ctx, ProductRequest{Name: "Tenda", Category: "tenda", Stock: -1})
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	_, err = svc.GetProduct(ctx, "garbage")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
	assert.Contains(t, err.Error(), "garbage")
}

func TestProductService_ListFilters(t *testing.T) {
	repo := newMemProductRepo()
	repo.add("Tenda Dome", 100000, 2)
	repo.add("Sleeping Bag", 20000, 8)
	svc := NewProductService(repo, zap.NewNop())

	minPrice := decimal.NewFromInt(50000)
	list, err := svc.ListProducts(context.Background(), productDomain.Filter{MinPrice: &minPrice})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Tenda Dome", list[0].Name)

	list, err = svc.ListProducts(context.Background(), productDomain.Filter{Search: "sleeping"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Sleeping Bag", list[0].Name)
}

func TestSettingsService(t *testing.T) {
	repo := &memSettingsRepo{}
	svc := NewSettingsService(repo, zap.NewNop())
	ctx := context.Background()

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, settingsDomain.Defaults(), got)
	assert.Equal(t, "6281234567890", got.WhatsAppNumber)
	assert.True(t, decimal.NewFromInt(50000).Equal(got.LatePenaltyPerDay))

	next := settingsDomain.Defaults()
	next.Address = "Jl. Gunung No. 1, Bandung"
	require.NoError(t, svc.Update(ctx, next))

	got, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Jl. Gunung No. 1, Bandung", got.Address)

	next.LatePenaltyPerDay = decimal.NewFromInt(-5)
	assert.True(t, domain.IsKind(svc.Update(ctx, next), domain.KindValidation))
}

func TestBlogService(t *testing.T) {
	svc := NewBlogService(&memPostRepo{}, zap.NewNop())
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, CreatePostRequest{Title: "", Content: "x", Category: "tips"})
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	first, err := svc.CreatePost(ctx, CreatePostRequest{Title: "Packing list", Content: "...", Category: "tips"})
	require.NoError(t, err)
	assert.Equal(t, "Admin", first.Author)
	_, err = svc.CreatePost(ctx, CreatePostRequest{Title: "Rinjani", Content: "...", Category: "trip"})
	require.NoError(t, err)

	all, err := svc.ListPosts(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Rinjani", all[0].Title)

	tips, err := svc.ListPosts(ctx, "tips")
	require.NoError(t, err)
	require.Len(t, tips, 1)

	got, err := svc.GetPost(ctx, first.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Packing list", got.Title)

	_, err = svc.GetPost(ctx, "nope")
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}
