package handlers

import (
	"servicebid/database/repository"
	"servicebid/services/autoreply"
	"servicebid/services/lifecycle"
	"servicebid/services/market"
	"servicebid/services/negotiation"
	"servicebid/services/workflow"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// Deps carries everything the handlers need. Assembled once in main.
type Deps struct {
	Repo        repository.EntityRepository
	Engine      lifecycle.Engine
	Negotiation negotiation.Service
	Workflow    workflow.Controller
	Market      market.Simulator
	AutoReply   autoreply.Service
	Cache       *redis.Client
}

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Repo repository.EntityRepository

	// Auth endpoints
	RegisterHandler gin.HandlerFunc
	LoginHandler    gin.HandlerFunc
	LogoutHandler   gin.HandlerFunc
	MeHandler       gin.HandlerFunc

	// User endpoints
	GetUserHandler         gin.HandlerFunc
	UpdateAutoReplyHandler gin.HandlerFunc
	UpdateCompanyHandler   gin.HandlerFunc

	// Job endpoints
	CreateJobHandler gin.HandlerFunc
	ListJobsHandler  gin.HandlerFunc
	GetJobHandler    gin.HandlerFunc

	// Proposal endpoints
	CreateProposalHandler   gin.HandlerFunc
	ListJobProposalsHandler gin.HandlerFunc
	AcceptProposalHandler   gin.HandlerFunc

	// Chat and negotiation endpoints
	ListThreadsHandler  gin.HandlerFunc
	GetThreadHandler    gin.HandlerFunc
	SendMessageHandler  gin.HandlerFunc
	ProposeOfferHandler gin.HandlerFunc
	RespondOfferHandler gin.HandlerFunc
	ConfirmOfferHandler gin.HandlerFunc

	// Workflow endpoints
	AdvanceStatusHandler  gin.HandlerFunc
	FinishJobHandler      gin.HandlerFunc
	SubmitRatingHandler   gin.HandlerFunc
	ConfirmPaymentHandler gin.HandlerFunc
	CancelJobHandler      gin.HandlerFunc
	ReopenJobHandler      gin.HandlerFunc
	GetInvoiceHandler     gin.HandlerFunc

	// Earnings endpoints
	EarningsHandler gin.HandlerFunc

	// Market endpoints
	OpenMarketHandler     gin.HandlerFunc
	MarketSnapshotHandler gin.HandlerFunc
	PauseMarketHandler    gin.HandlerFunc
	ResumeMarketHandler   gin.HandlerFunc
	CloseMarketHandler    gin.HandlerFunc
}

// NewHandlerBundle wires every handler against the shared dependencies.
func NewHandlerBundle(d Deps) *HandlerBundle {
	return &HandlerBundle{
		Repo: d.Repo,

		RegisterHandler: RegisterHandler(d.Repo, d.Cache),
		LoginHandler:    LoginHandler(d.Repo, d.Cache),
		LogoutHandler:   LogoutHandler(d.Cache),
		MeHandler:       MeHandler(),

		GetUserHandler:         GetUserHandler(d.Repo),
		UpdateAutoReplyHandler: UpdateAutoReplyHandler(d.Repo),
		UpdateCompanyHandler:   UpdateCompanyHandler(d.Repo),

		CreateJobHandler: CreateJobHandler(d.Repo),
		ListJobsHandler:  ListJobsHandler(d.Repo),
		GetJobHandler:    GetJobHandler(d.Repo),

		CreateProposalHandler:   CreateProposalHandler(d.Repo),
		ListJobProposalsHandler: ListJobProposalsHandler(d.Repo),
		AcceptProposalHandler:   AcceptProposalHandler(d.Repo, d.Engine),

		ListThreadsHandler:  ListThreadsHandler(d.Repo, d.Engine),
		GetThreadHandler:    GetThreadHandler(d.Repo, d.Engine, d.Negotiation),
		SendMessageHandler:  SendMessageHandler(d.Repo, d.AutoReply),
		ProposeOfferHandler: ProposeOfferHandler(d.Negotiation),
		RespondOfferHandler: RespondOfferHandler(d.Negotiation),
		ConfirmOfferHandler: ConfirmOfferHandler(d.Negotiation),

		AdvanceStatusHandler:  AdvanceStatusHandler(d.Workflow),
		FinishJobHandler:      FinishJobHandler(d.Workflow),
		SubmitRatingHandler:   SubmitRatingHandler(d.Workflow),
		ConfirmPaymentHandler: ConfirmPaymentHandler(d.Workflow),
		CancelJobHandler:      CancelJobHandler(d.Workflow),
		ReopenJobHandler:      ReopenJobHandler(d.Workflow),
		GetInvoiceHandler:     GetInvoiceHandler(d.Workflow),

		EarningsHandler: EarningsHandler(d.Repo),

		OpenMarketHandler:     OpenMarketHandler(d.Market),
		MarketSnapshotHandler: MarketSnapshotHandler(d.Market),
		PauseMarketHandler:    PauseMarketHandler(d.Market),
		ResumeMarketHandler:   ResumeMarketHandler(d.Market),
		CloseMarketHandler:    CloseMarketHandler(d.Market),
	}
}
