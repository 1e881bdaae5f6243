package handler // handler package holds the HTTP presentation layer of the grocery API

import (
    "context"
    "database/sql"
    "time"

    "go.uber.org/zap"

    "github.com/marketplace/grocery-api/internal/media"
    "github.com/marketplace/grocery-api/internal/model"
    "github.com/marketplace/grocery-api/internal/repository"
    "github.com/marketplace/grocery-api/internal/service"
)

// Detector classifies an uploaded image.  *service.DetectionClient
// satisfies it.
type Detector interface {
    Detect(ctx context.Context, imageURL string, userID uint64) (*service.Detection, error)
}

// Deps carries everything the resource handlers share.
type Deps struct {
    Admins        *repository.AdminRepo
    Users         *repository.UserRepo
    Markets       *repository.MarketRepo
    Categories    *repository.CategoryRepo
    Brands        *repository.BrandRepo
    Products      *repository.ProductRepo
    Listings      *repository.ListingRepo
    Carts         *repository.CartRepo
    Favorites     *repository.FavoriteRepo
    ProductImages *repository.ProductImageRepo

    Cascade  *repository.Cascade
    Media    *media.Relay
    Tokens   *service.TokenIssuer
    Detector Detector
    Log      *zap.Logger

    BcryptCost   int
    CookieSecure bool
}

// NewDeps builds the repositories over db.  Collaborators other than the
// store are set by the caller.
func NewDeps(db *sql.DB, cascade *repository.Cascade) *Deps {
    return &Deps{
        Admins:        repository.NewAdminRepo(db),
        Users:         repository.NewUserRepo(db),
        Markets:       repository.NewMarketRepo(db),
        Categories:    repository.NewCategoryRepo(db),
        Brands:        repository.NewBrandRepo(db),
        Products:      repository.NewProductRepo(db),
        Listings:      repository.NewListingRepo(db),
        Carts:         repository.NewCartRepo(db),
        Favorites:     repository.NewFavoriteRepo(db),
        ProductImages: repository.NewProductImageRepo(db),
        Cascade:       cascade,
        Log:           zap.L(),
        BcryptCost:    10,
    }
}

// ResolveAdmin loads the admin a token names.
func (d *Deps) ResolveAdmin(ctx context.Context, id uint64) (*model.Identity, error) {
    a, err := d.Admins.GetByID(ctx, id)
    if err != nil {
        return nil, err
    }
    return &model.Identity{Kind: model.SubjectAdmin, ID: a.ID, Role: a.Role, Admin: a}, nil
}

// ResolveUser loads the user a token names.
func (d *Deps) ResolveUser(ctx context.Context, id uint64) (*model.Identity, error) {
    u, err := d.Users.GetByID(ctx, id)
    if err != nil {
        return nil, err
    }
    return &model.Identity{Kind: model.SubjectUser, ID: u.ID, User: u}, nil
}

// sessionCookieTTL bounds the browser cookie; the token itself expires
// after the issuer's TTL.
func (d *Deps) sessionCookieTTL() time.Duration { return d.Tokens.TTL() }
