package handlers

import (
	"voltbay/internal/auth"
	"voltbay/internal/config"
	"voltbay/internal/media"
	"voltbay/internal/repos"
	"voltbay/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	AuthHandler       *AuthHandler
	CategoryHandler   *CategoryHandler
	ProductHandler    *ProductHandler
	SearchHandler     *SearchHandler
	CartHandler       *CartHandler
	OrderHandler      *OrderHandler
	SubmissionHandler *SubmissionHandler
	ReviewHandler     *ReviewHandler
	RepairHandler     *RepairHandler
	AdminHandler      *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, tokens *auth.Tokens) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	subRepo := repos.NewSubmissionRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	repairRepo := repos.NewRepairRepo(db)
	userRepo := repos.NewUserRepo(db)
	uow := repos.NewUnitOfWork(db)

	mediaStore := media.NewStore(cfg.ServerURL, cfg.MediaDir)

	authSvc := services.NewAuthService(userRepo, tokens)
	catalogSvc := services.NewCatalogService(catRepo, prodRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(cartRepo, prodRepo, orderRepo)
	intakeSvc := services.NewIntakeService(subRepo, catRepo)
	reviewSvc := services.NewReviewService(uow, mediaStore)
	repairSvc := services.NewRepairService(repairRepo)

	return &Deps{
		AuthHandler:       &AuthHandler{Auth: authSvc},
		CategoryHandler:   &CategoryHandler{Catalog: catalogSvc},
		ProductHandler:    &ProductHandler{Catalog: catalogSvc, Prods: prodRepo, Cats: catRepo, Media: mediaStore},
		SearchHandler:     &SearchHandler{Catalog: catalogSvc},
		CartHandler:       &CartHandler{Cart: cartSvc},
		OrderHandler:      &OrderHandler{Cart: cartSvc, Order: orderSvc, Repo: orderRepo},
		SubmissionHandler: &SubmissionHandler{Intake: intakeSvc},
		ReviewHandler:     &ReviewHandler{Review: reviewSvc},
		RepairHandler:     &RepairHandler{Repairs: repairSvc},
		AdminHandler:      &AdminHandler{Orders: orderSvc, OrderRepo: orderRepo, Subs: subRepo, Users: userRepo, Prods: prodRepo},
	}
}
