package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/amrutam/booking-system/internal/core/domain"
	"github.com/amrutam/booking-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs: challenge store and mailer
// ---------------------------------------------------------------------------

type stubChallengeStore struct {
	codes        map[string]string
	grants       map[string]string
	storeCodeErr error
	deleteErr    error
	grantErr     error
}

func newStubChallengeStore() *stubChallengeStore {
	return &stubChallengeStore{
		codes:  make(map[string]string),
		grants: make(map[string]string),
	}
}

func (s *stubChallengeStore) StoreCode(_ context.Context, email, code string, _ time.Duration) error {
	if s.storeCodeErr != nil {
		return s.storeCodeErr
	}
	s.codes[email] = code
	return nil
}

func (s *stubChallengeStore) Code(_ context.Context, email string) (string, error) {
	return s.codes[email], nil
}

func (s *stubChallengeStore) DeleteCode(_ context.Context, email string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.codes, email)
	return nil
}

func (s *stubChallengeStore) StoreGrant(_ context.Context, userID, token string, _ time.Duration) error {
	if s.grantErr != nil {
		return s.grantErr
	}
	s.grants[userID] = token
	return nil
}

type sentMail struct {
	email    string
	code     string
	validity time.Duration
}

type stubOTPMailer struct {
	sent    []sentMail
	sendErr error
}

func (m *stubOTPMailer) SendOTP(email, code string, validity time.Duration) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentMail{email: email, code: code, validity: validity})
	return nil
}

func newOTPFixture(gateEnforced bool) (*OTPService, *stubChallengeStore, *stubOTPMailer, *stubUserRepo) {
	store := newStubChallengeStore()
	mailer := &stubOTPMailer{}
	users := newStubUserRepo()
	svc := NewOTPService(store, mailer, users, 6, 10*time.Minute, gateEnforced, discardLogger)
	return svc, store, mailer, users
}

var patientIdent = ports.Identity{UserID: "user-1", Email: "asha@example.com", Role: domain.RolePatient}

// ---------------------------------------------------------------------------
// Issue tests
// ---------------------------------------------------------------------------

func TestOTP_Issue_StoresAndMailsSameCode(t *testing.T) {
	svc, store, mailer, _ := newOTPFixture(true)

	if err := svc.Issue(context.Background(), "asha@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := store.codes["asha@example.com"]
	if !regexp.MustCompile(`^\d{6}$`).MatchString(stored) {
		t.Errorf("expected a 6-digit code, got %q", stored)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(mailer.sent))
	}
	if mailer.sent[0].code != stored {
		t.Errorf("mailed code %q differs from stored code %q", mailer.sent[0].code, stored)
	}
	if mailer.sent[0].validity != 10*time.Minute {
		t.Errorf("mail must state the real TTL, got %v", mailer.sent[0].validity)
	}
}

func TestOTP_Issue_EmptyEmail(t *testing.T) {
	svc, _, _, _ := newOTPFixture(true)

	err := svc.Issue(context.Background(), "")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "email" {
		t.Errorf("expected validation error on email, got %v", err)
	}
}

func TestOTP_Issue_StoreFailureAbortsBeforeMail(t *testing.T) {
	svc, store, mailer, _ := newOTPFixture(true)
	store.storeCodeErr = errors.New("redis down")

	if err := svc.Issue(context.Background(), "asha@example.com"); err == nil {
		t.Fatal("expected error when the store fails, got nil")
	}
	if len(mailer.sent) != 0 {
		t.Errorf("no mail may be sent for an unstored code, got %d", len(mailer.sent))
	}
}

func TestOTP_Issue_MailFailureKeepsStoredCode(t *testing.T) {
	svc, store, mailer, _ := newOTPFixture(true)
	mailer.sendErr = errors.New("smtp down")

	if err := svc.Issue(context.Background(), "asha@example.com"); err == nil {
		t.Fatal("expected error when delivery fails, got nil")
	}
	// The stored code stays valid so a resend can succeed.
	if store.codes["asha@example.com"] == "" {
		t.Error("stored code must survive a delivery failure")
	}
}

func TestOTP_Issue_LastIssuedWins(t *testing.T) {
	svc, store, mailer, _ := newOTPFixture(true)

	if err := svc.Issue(context.Background(), "asha@example.com"); err != nil {
		t.Fatalf("first issue: %v", err)
	}
	if err := svc.Issue(context.Background(), "asha@example.com"); err != nil {
		t.Fatalf("second issue: %v", err)
	}

	if len(mailer.sent) != 2 {
		t.Fatalf("expected 2 mails, got %d", len(mailer.sent))
	}
	if store.codes["asha@example.com"] != mailer.sent[1].code {
		t.Error("store must hold the most recently mailed code")
	}
}

// ---------------------------------------------------------------------------
// Verify tests
// ---------------------------------------------------------------------------

func TestOTP_Verify_SuccessConsumesAndMintsGrant(t *testing.T) {
	svc, store, _, users := newOTPFixture(true)
	seedUser(t, users, "user-1", "asha@example.com", "pw123456", domain.RolePatient)
	store.codes["asha@example.com"] = "482913"

	result, err := svc.Verify(context.Background(), patientIdent, "482913")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !regexp.MustCompile(`^[0-9a-f]{32}$`).MatchString(result.BookingGrant) {
		t.Errorf("expected a 32-hex booking grant, got %q", result.BookingGrant)
	}
	if store.grants["user-1"] != result.BookingGrant {
		t.Error("grant must be stored under the user id")
	}
	if _, ok := store.codes["asha@example.com"]; ok {
		t.Error("code must be consumed on success")
	}
	u, _ := users.FindByEmail(context.Background(), "asha@example.com")
	if !u.IsVerified {
		t.Error("user must be marked verified")
	}
}

func TestOTP_Verify_SingleUse(t *testing.T) {
	svc, store, _, users := newOTPFixture(true)
	seedUser(t, users, "user-1", "asha@example.com", "pw123456", domain.RolePatient)
	store.codes["asha@example.com"] = "482913"

	if _, err := svc.Verify(context.Background(), patientIdent, "482913"); err != nil {
		t.Fatalf("first verify: %v", err)
	}
	_, err := svc.Verify(context.Background(), patientIdent, "482913")
	if !errors.Is(err, domain.ErrOTPExpired) {
		t.Errorf("second verify must fail with ErrOTPExpired, got %v", err)
	}
}

func TestOTP_Verify_MismatchPreservesCode(t *testing.T) {
	svc, store, _, users := newOTPFixture(true)
	seedUser(t, users, "user-1", "asha@example.com", "pw123456", domain.RolePatient)
	store.codes["asha@example.com"] = "482913"

	_, err := svc.Verify(context.Background(), patientIdent, "000000")
	if !errors.Is(err, domain.ErrOTPMismatch) {
		t.Fatalf("expected ErrOTPMismatch, got %v", err)
	}
	if store.codes["asha@example.com"] != "482913" {
		t.Fatal("a mismatch must not consume the stored code")
	}

	// The correct code still verifies within the TTL.
	if _, err := svc.Verify(context.Background(), patientIdent, "482913"); err != nil {
		t.Errorf("correct code after mismatch: %v", err)
	}
}

func TestOTP_Verify_NoChallenge(t *testing.T) {
	svc, _, _, _ := newOTPFixture(true)

	_, err := svc.Verify(context.Background(), patientIdent, "482913")
	if !errors.Is(err, domain.ErrOTPExpired) {
		t.Errorf("expected ErrOTPExpired with no stored code, got %v", err)
	}
}

func TestOTP_Verify_EmptyCode(t *testing.T) {
	svc, _, _, _ := newOTPFixture(true)

	_, err := svc.Verify(context.Background(), patientIdent, "")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "otp" {
		t.Errorf("expected validation error on otp, got %v", err)
	}
}

func TestOTP_Verify_LegacyGateMintsNoGrant(t *testing.T) {
	svc, store, _, users := newOTPFixture(false)
	seedUser(t, users, "user-1", "asha@example.com", "pw123456", domain.RolePatient)
	store.codes["asha@example.com"] = "482913"

	result, err := svc.Verify(context.Background(), patientIdent, "482913")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.BookingGrant != "" {
		t.Errorf("legacy gate mode must not mint a grant, got %q", result.BookingGrant)
	}
	if len(store.grants) != 0 {
		t.Errorf("no grant may be stored in legacy mode, got %d", len(store.grants))
	}
}

func TestOTP_Verify_MarkVerifiedFailureSurfaces(t *testing.T) {
	svc, store, _, users := newOTPFixture(true)
	seedUser(t, users, "user-1", "asha@example.com", "pw123456", domain.RolePatient)
	users.markVerifyErr = errors.New("db down")
	store.codes["asha@example.com"] = "482913"

	if _, err := svc.Verify(context.Background(), patientIdent, "482913"); err == nil {
		t.Fatal("expected error when marking verified fails, got nil")
	}
}

// ---------------------------------------------------------------------------
// Code generation tests
// ---------------------------------------------------------------------------

func TestOTP_GenerateCode_AlwaysSixDigits(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{6}$`)
	leadingZero := 0
	for i := 0; i < 2000; i++ {
		code, err := generateCode(6)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if !pattern.MatchString(code) {
			t.Fatalf("draw %d: %q is not a 6-digit code", i, code)
		}
		if code[0] == '0' {
			leadingZero++
		}
	}
	// Roughly 10% of uniform draws start with zero. Zero occurrences over
	// 2000 draws would mean the generator truncates instead of padding.
	if leadingZero == 0 {
		t.Error("expected some zero-padded codes over 2000 draws, got none")
	}
}

func TestOTP_GenerateCode_DefaultLength(t *testing.T) {
	svc := NewOTPService(newStubChallengeStore(), &stubOTPMailer{}, newStubUserRepo(), 0, 0, true, discardLogger)
	if svc.codeLength != DefaultOTPLength {
		t.Errorf("expected default length %d, got %d", DefaultOTPLength, svc.codeLength)
	}
	if svc.ttl != DefaultOTPTTL {
		t.Errorf("expected default TTL %v, got %v", DefaultOTPTTL, svc.ttl)
	}
}
