package services

import (
	"testing"

	"penjahit-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFormatID(t *testing.T) {
	cases := []struct {
		prefix string
		width  int
		n      int64
		want   string
	}{
		{"P", 4, 1, "P0001"},
		{"P", 4, 100, "P0100"},
		{"P", 4, 10000, "P10000"},
		{"JP", 3, 10, "JP010"},
		{"NT", 5, 42, "NT00042"},
	}
	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, formatID(tc.prefix, tc.width, tc.n))
		})
	}
}

func TestTrailingNumber(t *testing.T) {
	cases := map[string]int64{
		"":        0,
		"P0001":   1,
		"P9999":   9999,
		"P10000":  10000,
		"JP009":   9,
		"NT00041": 41,
		"garbage": 0,
	}
	for id, want := range cases {
		assert.Equal(t, want, trailingNumber(id), id)
	}
}

func TestAllocateID_SequentialAndSeededFromExistingRows(t *testing.T) {
	db := newTestDB(t)

	// Rows inserted before the counter existed.
	require.NoError(t, db.Create(&models.GarmentType{ID: "JP007", Name: "Rok"}).Error)
	require.NoError(t, db.Create(&models.GarmentType{ID: "JP010", Name: "Jas"}).Error)

	var ids []string
	err := db.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < 3; i++ {
			id, err := allocateID(tx, garmentIDs)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"JP011", "JP012", "JP013"}, ids)
}

func TestAllocateID_RolledBackTransactionDoesNotConsumeNumber(t *testing.T) {
	db := newTestDB(t)

	_ = db.Transaction(func(tx *gorm.DB) error {
		_, err := allocateID(tx, customerIDs)
		require.NoError(t, err)
		return assert.AnError
	})

	var id string
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		id, err = allocateID(tx, customerIDs)
		return err
	}))
	assert.Equal(t, "P0001", id)
}

func TestSyncSequence_RaisesCounterAfterExplicitInserts(t *testing.T) {
	db := newTestDB(t)
	seedGarment(t, db, "Kemeja")
	require.NoError(t, db.Create(&models.GarmentType{ID: "JP009", Name: "Seragam"}).Error)

	require.NoError(t, syncSequence(db, garmentIDs))

	g := seedGarment(t, db, "Kebaya")
	assert.Equal(t, "JP010", g.ID)
}
