package pgsql

import (
	portsrepo "github.com/SscSPs/payslip_portal/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	salaryRecordRepo := newPgxSalaryRecordRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)

	return portsrepo.RepositoryProvider{
		SalaryRecordRepo: salaryRecordRepo,
		UserRepo:         userRepo,
	}
}
