package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"(11) 98888-7777", "11988887777", true},
		{"11 98888 7777", "11988887777", true},
		{"+55 11 98888-7777", "11988887777", true},
		{"5511988887777", "11988887777", true},
		{"11 3333-4444", "1133334444", true}, // landline, 10 digits
		{"5511", "", false},
		{"98888-7777", "", false}, // missing DDD
		{"", "", false},
		{"111111111111111", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizePhone(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("NormalizePhone(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestCreateManual_CreatesPlaceholderCustomer(t *testing.T) {
	env := newTestEnv(civilTime(2026, 3, 1, 10, 0))
	ctx := context.Background()

	res, err := env.svc.CreateManual(ctx, ManualCreateRequest{
		ShopID:       "shop1",
		CustomerName: "Walk In",
		Phone:        "(11) 91111-2222",
		ServiceIDs:   []string{"svc-cut"},
		Date:         monday,
		StartTime:    "09:00",
	})
	require.NoError(t, err)
	require.Len(t, res.Bookings, 1)

	cust, err := env.customers.GetByID(ctx, res.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, "Walk In", cust.Name)
	assert.Equal(t, "11911112222", cust.Phone)
	assert.Equal(t, "shop1", cust.PreferredShopID)
	assert.True(t, cust.StaffCreated)
	assert.NotEmpty(t, cust.PasswordHash, "placeholder account must be claimable later")
}

func TestCreateManual_BindsExistingUnboundCustomer(t *testing.T) {
	env := newTestEnv(civilTime(2026, 3, 1, 10, 0))
	ctx := context.Background()

	// cust1 already exists with this phone and no shop binding.
	res, err := env.svc.CreateManual(ctx, ManualCreateRequest{
		ShopID:       "shop1",
		CustomerName: "Joao Pedro",
		Phone:        "11 97777-6666",
		ServiceIDs:   []string{"svc-cut"},
		Date:         monday,
		StartTime:    "10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "cust1", res.CustomerID, "must reuse the existing record, not duplicate it")

	cust, _ := env.customers.GetByID(ctx, "cust1")
	assert.Equal(t, "shop1", cust.PreferredShopID)
	assert.Equal(t, "Joao Pedro", cust.Name, "staff-entered name wins on binding")
}

func TestCreateManual_RejectsBadInput(t *testing.T) {
	env := newTestEnv(civilTime(2026, 3, 1, 10, 0))
	ctx := context.Background()
	var ve *ValidationError

	_, err := env.svc.CreateManual(ctx, ManualCreateRequest{
		ShopID: "shop1", CustomerName: "X", Phone: "123",
		ServiceIDs: []string{"svc-cut"}, Date: monday, StartTime: "09:00",
	})
	require.True(t, errors.As(err, &ve), "short phone must fail, got %v", err)

	_, err = env.svc.CreateManual(ctx, ManualCreateRequest{
		ShopID: "shop1", CustomerName: "   ", Phone: "11988887777",
		ServiceIDs: []string{"svc-cut"}, Date: monday, StartTime: "09:00",
	})
	require.True(t, errors.As(err, &ve), "blank name must fail, got %v", err)

	// No customer row is left behind by a failed request.
	assert.Len(t, env.customers.customers, 1)
}
