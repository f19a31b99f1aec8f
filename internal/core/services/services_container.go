package services

import (
	portsrepo "github.com/SscSPs/payslip_portal/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/payslip_portal/internal/core/ports/services"
	"github.com/SscSPs/payslip_portal/internal/platform/config"
)

// Adapters groups the outbound adapters the services are wired with.
type Adapters struct {
	Parser   portssvc.SpreadsheetParser
	Renderer portssvc.DocumentRenderer
	Delivery portssvc.DeliveryChannel
	// Locker may be nil, in which case batches are not locked.
	Locker portssvc.BatchLocker
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, adapters Adapters) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg, container.User)

	var processorOpts []BatchProcessorOption
	var salaryOpts []SalaryServiceOption
	if adapters.Locker != nil {
		processorOpts = append(processorOpts, WithBatchLocker(adapters.Locker))
		salaryOpts = append(salaryOpts, WithSalaryBatchLocker(adapters.Locker))
	}

	container.Salary = NewSalaryService(repos.SalaryRecordRepo, adapters.Parser, cfg.UploadFolder, salaryOpts...)
	container.BatchProcessor = NewBatchProcessorService(
		repos.SalaryRecordRepo,
		adapters.Renderer,
		adapters.Delivery,
		processorOpts...,
	)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.UserSvcFacade           = (*userService)(nil)
	_ portssvc.TokenSvcFacade          = (*tokenService)(nil)
	_ portssvc.SalarySvcFacade         = (*salaryService)(nil)
	_ portssvc.BatchProcessorSvcFacade = (*batchProcessor)(nil)
)
