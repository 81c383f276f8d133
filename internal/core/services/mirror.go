package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/bloodconnect/bloodconnect-service/internal/core/domain"
	"github.com/bloodconnect/bloodconnect-service/internal/core/ports"
)

const mirrorTimeFormat = "2006-01-02 15:04:05"

// MirrorTargets names the collection each entity kind is appended to.
type MirrorTargets struct {
	BloodBanks  string
	Donors      string
	SOSRequests string
	BloodStock  string
}

func DefaultMirrorTargets() MirrorTargets {
	return MirrorTargets{
		BloodBanks:  "BloodBanks",
		Donors:      "Donors",
		SOSRequests: "SOSRequests",
		BloodStock:  "BloodStock",
	}
}

// Mirror copies entity writes to the external sync target. Every Sync*
// method reports success as a bool and never propagates a failure: the
// primary write has already been committed when it is called.
type Mirror struct {
	target  ports.SyncTarget
	names   MirrorTargets
	timeout time.Duration
	logger  *zap.Logger
	metrics ports.Metrics
}

func NewMirror(
	target ports.SyncTarget,
	names MirrorTargets,
	timeout time.Duration,
	logger *zap.Logger,
	metrics ports.Metrics,
) *Mirror {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Mirror{
		target:  target,
		names:   names,
		timeout: timeout,
		logger:  logger.Named("mirror"),
		metrics: metrics,
	}
}

func (m *Mirror) SyncBloodBank(ctx context.Context, bank domain.BloodBank) bool {
	return m.append(ctx, m.names.BloodBanks, BloodBankRow(bank))
}

func (m *Mirror) SyncDonor(ctx context.Context, donor domain.Donor) bool {
	return m.append(ctx, m.names.Donors, DonorRow(donor))
}

func (m *Mirror) SyncSOSRequest(ctx context.Context, req domain.SOSRequest) bool {
	return m.append(ctx, m.names.SOSRequests, SOSRequestRow(req))
}

func (m *Mirror) SyncBloodStock(ctx context.Context, stock domain.StockWithBank) bool {
	return m.append(ctx, m.names.BloodStock, BloodStockRow(stock))
}

func (m *Mirror) append(ctx context.Context, target string, values []string) (ok bool) {
	if m.target == nil {
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("sync target panicked",
				zap.String("target", target),
				zap.Any("panic", r),
			)
			ok = false
		}
		m.metrics.MirrorSynced(target, ok)
	}()

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	if err := m.target.Append(ctx, target, values); err != nil {
		if errors.Is(err, domain.ErrMirrorDisabled) {
			m.logger.Warn("mirror not available, row dropped", zap.String("target", target))
		} else {
			m.logger.Error("failed to append row",
				zap.String("target", target),
				zap.String("record_id", values[0]),
				zap.Error(err),
			)
		}
		return false
	}

	m.logger.Info("appended row", zap.String("target", target), zap.String("record_id", values[0]))
	return true
}

func BloodBankRow(b domain.BloodBank) []string {
	status := "Pending"
	if b.IsVerified {
		status = "Verified"
	}
	return []string{
		b.ID,
		b.Username,
		b.Name,
		b.City,
		b.Address,
		b.Phone,
		optional(b.Email),
		optionalFloat(b.Latitude),
		optionalFloat(b.Longitude),
		status,
		formatTime(b.CreatedAt),
	}
}

func DonorRow(d domain.Donor) []string {
	return []string{
		d.ID,
		d.Name,
		d.BloodGroup.String(),
		d.Phone,
		d.City,
		optional(d.Email),
		formatTime(d.CreatedAt),
	}
}

func SOSRequestRow(r domain.SOSRequest) []string {
	status := "Inactive"
	if r.IsActive {
		status = "Active"
	}
	return []string{
		r.ID,
		r.RequesterName,
		r.BloodGroup.String(),
		r.City,
		r.Phone,
		optional(r.HospitalName),
		optional(r.Address),
		optional(r.UrgencyNotes),
		status,
		formatTime(r.CreatedAt),
	}
}

func BloodStockRow(s domain.StockWithBank) []string {
	availability := "Not Available"
	if s.IsAvailable {
		availability = "Available"
	}
	return []string{
		s.ID,
		s.BankName,
		s.BankCity,
		s.BloodGroup.String(),
		fmt.Sprintf("%d", s.Quantity),
		s.PricePerUnit.StringFixed(2),
		availability,
		formatTime(s.UpdatedAt),
	}
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(mirrorTimeFormat)
}
