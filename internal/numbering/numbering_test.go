package numbering

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/retailflow-backend/pkg/db/dbtest"
	"github.com/angelmondragon/retailflow-backend/pkg/db/models"
)

func TestFormatAndNext(t *testing.T) {
	assert.Equal(t, "V0001", Format("V", 4, 1))
	assert.Equal(t, "GRN0042", Next("GRN", 4, 41))
	assert.Equal(t, "BILL-0001", Next("BILL-", 4, 0))
	assert.Equal(t, "V12345", Format("V", 4, 12345))
}

func TestSequencerIsMonotonic(t *testing.T) {
	client := dbtest.Open(t)
	seq := NewSequencer()
	ctx := context.Background()

	var got []string
	for i := 0; i < 3; i++ {
		require.NoError(t, client.WithTx(ctx, func(tx *gorm.DB) error {
			n, err := seq.Next(ctx, tx, GRNNumbers)
			got = append(got, n)
			return err
		}))
	}
	assert.Equal(t, []string{"GRN0001", "GRN0002", "GRN0003"}, got)
}

func TestSequencerSkipsPastExistingIDs(t *testing.T) {
	client := dbtest.Open(t)
	ctx := context.Background()

	require.NoError(t, client.DB().Create(&models.Vendor{VendorCode: "ACME", VendorName: "Acme"}).Error)
	require.NoError(t, client.DB().Create(&models.Vendor{VendorCode: "BOLT", VendorName: "Bolt"}).Error)

	var code string
	require.NoError(t, client.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		code, err = NewSequencer().Next(ctx, tx, VendorCodes)
		return err
	}))
	assert.Equal(t, "V0003", code)
}

func TestSequencerRollbackReleasesValue(t *testing.T) {
	client := dbtest.Open(t)
	seq := NewSequencer()
	ctx := context.Background()

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := seq.Next(ctx, tx, BillNumbers); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.Error(t, err)

	var n string
	require.NoError(t, client.WithTx(ctx, func(tx *gorm.DB) error {
		n, err = seq.Next(ctx, tx, BillNumbers)
		return err
	}))
	assert.Equal(t, "BILL-0001", n)
}

func TestSequencerRequiresTransaction(t *testing.T) {
	_, err := NewSequencer().Next(context.Background(), nil, GRNNumbers)
	assert.Error(t, err)
}

func TestSequencerSkipsNumbersWrittenByHand(t *testing.T) {
	client := dbtest.Open(t)
	seq := NewSequencer()
	ctx := context.Background()

	require.NoError(t, client.DB().Create(&models.Vendor{VendorCode: "V0002", VendorName: "Manual"}).Error)
	require.NoError(t, client.DB().Create(&models.Vendor{VendorCode: "V0003", VendorName: "Manual too"}).Error)

	next := func() string {
		var code string
		require.NoError(t, client.WithTx(ctx, func(tx *gorm.DB) error {
			var err error
			code, err = seq.Next(ctx, tx, VendorCodes)
			if err != nil {
				return err
			}
			return tx.Create(&models.Vendor{VendorCode: code, VendorName: "Auto " + code}).Error
		}))
		return code
	}

	assert.Equal(t, "V0004", next())
	assert.Equal(t, "V0005", next())
}
