package services

import (
	portsrepo "github.com/velmoney/velmo_app/internal/core/ports/repositories"
	portssvc "github.com/velmoney/velmo_app/internal/core/ports/services"
	"github.com/velmoney/velmo_app/internal/platform/config"
)

// NewServiceContainer wires all application services against the repository
// provider. The notifier may be nil when no realtime channel is configured.
func NewServiceContainer(cfg *config.Config, repos *portsrepo.RepositoryProvider, notifier portssvc.BalanceNotifier) *portssvc.ServiceContainer {
	userSvc := NewUserService(repos.UserRepo, repos.AccountRepo)
	accountSvc := NewAccountService(repos.AccountRepo, repos.UserRepo)
	transferSvc := NewTransferService(repos.TransferRepo, repos.AccountRepo, repos.UserRepo, notifier)

	return &portssvc.ServiceContainer{
		Account:     accountSvc,
		Transfer:    transferSvc,
		User:        userSvc,
		Token:       NewTokenService(cfg, userSvc),
		GoogleOAuth: NewGoogleOAuthHandlerService(cfg),
	}
}
