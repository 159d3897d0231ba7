package domain

import (
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
)

var at = time.Date(2024, 5, 17, 23, 30, 0, 0, time.UTC)

func pendingOrder() *Order {
	o := &Order{ID: "o-1", Status: StatusPending}
	o.History = []HistoryEntry{{Status: StatusPending, Timestamp: at, Note: NotePlaced}}
	return o
}

func TestComputeTotals_DefaultShipping(t *testing.T) {
	items := []Item{
		{ProductID: "a", Price: decimal.NewFromInt(10), Quantity: 2},
		{ProductID: "b", Price: decimal.NewFromInt(5), Quantity: 1},
	}
	totals, err := ComputeTotals(items, DefaultShippingCost, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "25", totals.Subtotal.String())
	assert.Equal(t, "2", totals.Tax.String())
	assert.Equal(t, "32.99", totals.Total.String())
}

func TestComputeTotals_RoundsTaxAndSubtractsDiscount(t *testing.T) {
	items := []Item{{ProductID: "a", Price: decimal.RequireFromString("12.99"), Quantity: 3}}
	totals, err := ComputeTotals(items, decimal.Zero, decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.Equal(t, "38.97", totals.Subtotal.String())
	assert.Equal(t, "3.12", totals.Tax.String())
	assert.Equal(t, "41.09", totals.Total.String())

	_, err = ComputeTotals(items, decimal.NewFromInt(-1), decimal.Zero)
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestComputeTotals_DiscountCappedAtSubtotal(t *testing.T) {
	items := []Item{{ProductID: "a", Price: decimal.NewFromInt(10), Quantity: 2}}
	totals, err := ComputeTotals(items, DefaultShippingCost, decimal.NewFromInt(1000))
	require.NoError(t, err)
	assert.Equal(t, "20", totals.Discount.String())
	assert.Equal(t, "7.59", totals.Total.String())
	assert.False(t, totals.Total.IsNegative())
}

func TestCancel(t *testing.T) {
	for _, status := range []Status{StatusPending, StatusProcessing} {
		o := pendingOrder()
		o.Status = status
		require.NoError(t, o.Cancel(at))
		assert.Equal(t, StatusCancelled, o.Status)
		last := o.History[len(o.History)-1]
		assert.Equal(t, NoteCancelled, last.Note)
	}
	for _, status := range []Status{StatusShipped, StatusDelivered, StatusCancelled} {
		o := pendingOrder()
		o.Status = status
		err := o.Cancel(at)
		assert.ErrorIs(t, err, errkind.InvalidTransition, string(status))
		assert.Len(t, o.History, 1)
	}
}

func TestAddTracking_ForcesShippedFromAnyStatus(t *testing.T) {
	o := pendingOrder()
	o.Status = StatusDelivered

	require.NoError(t, o.AddTracking(" 1Z999 ", "UPS", at))
	assert.Equal(t, StatusShipped, o.Status)
	assert.Equal(t, "1Z999", o.TrackingNumber)
	assert.Equal(t, NoteTrackingAdded, o.History[len(o.History)-1].Note)

	assert.ErrorIs(t, o.AddTracking("  ", "UPS", at), ErrMissingTrackingNumber)
}

func TestTransitionStrict(t *testing.T) {
	o := pendingOrder()
	require.NoError(t, o.TransitionStrict(StatusProcessing, "", at))
	require.NoError(t, o.TransitionStrict(StatusShipped, "", at))
	err := o.TransitionStrict(StatusPending, "", at)
	var transitionErr *TransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, StatusShipped, transitionErr.From)
	require.NoError(t, o.TransitionStrict(StatusDelivered, "", at))
	assert.Len(t, o.History, 4)

	assert.ErrorIs(t, o.TransitionStrict(Status("lost"), "", at), ErrInvalidStatus)
}

func TestTransition_HistoryIsAppendOnly(t *testing.T) {
	o := pendingOrder()
	first := o.History[0]
	require.NoError(t, o.Transition(StatusProcessing, "packed", at.Add(time.Hour)))
	require.NoError(t, o.Transition(StatusPending, "", at.Add(2*time.Hour)))
	require.Len(t, o.History, 3)
	assert.Equal(t, first, o.History[0])
	assert.Equal(t, "packed", o.History[1].Note)
}

func TestAddressValidate(t *testing.T) {
	err := Address{Street: "1 Farm Rd", City: "Darbhanga"}.Validate("shipping")
	var addrErr *AddressError
	require.ErrorAs(t, err, &addrErr)
	assert.Equal(t, []string{"state", "zipCode", "country"}, addrErr.Fields)
	assert.NoError(t, Address{Street: "s", City: "c", State: "st", ZipCode: "z", Country: "IN"}.Validate("shipping"))
}

func TestNewOrderNumber(t *testing.T) {
	number, err := NewOrderNumber(at.In(time.FixedZone("IST", 5*3600+1800)))
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^FN-20240517-[A-Z0-9]{6}$`), number)
}

func TestSetPaymentStatus(t *testing.T) {
	o := pendingOrder()
	require.NoError(t, o.SetPaymentStatus(PaymentPaid, at))
	assert.Equal(t, PaymentPaid, o.PaymentStatus)
	assert.ErrorIs(t, o.SetPaymentStatus("maybe", at), ErrInvalidPaymentStatus)
}
