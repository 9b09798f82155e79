package vendors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/retailflow-backend/internal/numbering"
	"github.com/angelmondragon/retailflow-backend/pkg/db/dbtest"
	"github.com/angelmondragon/retailflow-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/retailflow-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	client := dbtest.Open(t)
	svc, err := NewService(client, NewRepository(client.DB()), numbering.NewSequencer())
	require.NoError(t, err)
	return svc
}

func strPtr(v string) *string { return &v }

func TestCreateGeneratesSequentialCodes(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, Input{VendorName: "Acme Textiles"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, Input{VendorName: "Bolt Apparel", VendorCode: "   "})
	require.NoError(t, err)

	assert.Equal(t, "V0001", first.VendorCode)
	assert.Equal(t, "V0002", second.VendorCode)
	assert.Equal(t, enums.VendorStatusActive, first.Status)
}

func TestCreateWithExplicitCode(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	v, err := svc.Create(ctx, Input{VendorName: "Acme", VendorCode: " ACME01 "})
	require.NoError(t, err)
	assert.Equal(t, "ACME01", v.VendorCode)

	_, err = svc.Create(ctx, Input{VendorName: "Other", VendorCode: "ACME01"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, "Vendor code already exists", pkgerrors.As(err).Message())

	generated, err := svc.Create(ctx, Input{VendorName: "Generated"})
	require.NoError(t, err)
	assert.Equal(t, "V0002", generated.VendorCode, "auto code continues after the highest id")
}

func TestCreateNormalizesFields(t *testing.T) {
	svc := newTestService(t)

	v, err := svc.Create(context.Background(), Input{
		VendorName: "  Acme  ",
		Email:      strPtr("  sales@acme.test "),
		Phone:      strPtr("   "),
		TaggedSKUs: []string{" SKU-2", "", "SKU-1", "SKU-2 "},
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme", v.VendorName)
	assert.Equal(t, "sales@acme.test", *v.Email)
	assert.Nil(t, v.Phone)
	assert.Equal(t, []string{"SKU-2", "SKU-1"}, v.TaggedSKUs)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"SKU-2", "SKU-1"}, list[0].TaggedSKUs)
}

func TestCreateRequiresName(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), Input{VendorName: "  "})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateRejectsUnknownStatus(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Create(context.Background(), Input{VendorName: "Acme", Status: "Suspended"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestListEmptyTaggedSKUsIsEmptySlice(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Create(context.Background(), Input{VendorName: "Acme"})
	require.NoError(t, err)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.NotNil(t, list[0].TaggedSKUs)
	assert.Empty(t, list[0].TaggedSKUs)
}

func TestUpdate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, Input{VendorName: "Acme"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, Input{VendorName: "Bolt"})
	require.NoError(t, err)

	kept, err := svc.Update(ctx, a.ID, Input{VendorName: "Acme Ltd", Status: enums.VendorStatusInactive})
	require.NoError(t, err)
	assert.Equal(t, "V0001", kept.VendorCode, "blank code keeps the existing one")
	assert.Equal(t, "Acme Ltd", kept.VendorName)
	assert.Equal(t, enums.VendorStatusInactive, kept.Status)

	_, err = svc.Update(ctx, a.ID, Input{VendorName: "Acme", VendorCode: b.VendorCode})
	require.Error(t, err)
	assert.Equal(t, "Vendor code already used by another vendor", pkgerrors.As(err).Message())

	renamed, err := svc.Update(ctx, a.ID, Input{VendorName: "Acme", VendorCode: "ACME"})
	require.NoError(t, err)
	assert.Equal(t, "ACME", renamed.VendorCode)

	_, err = svc.Update(ctx, 999, Input{VendorName: "Ghost"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	v, err := svc.Create(ctx, Input{VendorName: "Acme"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, v.ID))

	err = svc.Delete(ctx, v.ID)
	require.Error(t, err)
	assert.Equal(t, "Vendor not found", pkgerrors.As(err).Message())

	next, err := svc.Create(ctx, Input{VendorName: "Bolt"})
	require.NoError(t, err)
	assert.Equal(t, "V0002", next.VendorCode, "numbers are not reused after delete")
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(nil, nil, nil)
	assert.Error(t, err)
}

func TestCreateRejectsCommaInTaggedSKU(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), Input{VendorName: "Acme", TaggedSKUs: []string{"SKU-1", "SKU-2,SKU-3"}})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Contains(t, pkgerrors.As(err).Message(), "must not contain")

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAutoCodeSkipsManualCodeAhead(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, Input{VendorName: "Manual", VendorCode: "V0002"})
	require.NoError(t, err)

	first, err := svc.Create(ctx, Input{VendorName: "First auto"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, Input{VendorName: "Second auto"})
	require.NoError(t, err)

	assert.Equal(t, "V0003", first.VendorCode)
	assert.Equal(t, "V0004", second.VendorCode)
}
