package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satshop-api/internal/model"
	"satshop-api/pkg/database"
)

func TestApplyLoyaltyDeltaKeepsBalanceConsistent(t *testing.T) {
	setupTest(t)
	db := database.GetDB()

	account, err := ApplyLoyaltyDelta(db, 1, 100, model.LoyaltyTypeEarn, "order reward")
	require.NoError(t, err)
	assert.Equal(t, 100, account.Balance)
	assert.Equal(t, 100, account.LifetimeEarned)

	account, err = ApplyLoyaltyDelta(db, 1, -30, model.LoyaltyTypeRedeem, "discount")
	require.NoError(t, err)
	assert.Equal(t, 70, account.Balance)
	assert.Equal(t, 100, account.LifetimeEarned, "redeeming must not reduce lifetime earned")

	// The append-only log sums to the balance
	var sum int64
	require.NoError(t, db.Model(&model.LoyaltyTransaction{}).
		Where("user_id = ?", 1).
		Select("COALESCE(SUM(points), 0)").
		Scan(&sum).Error)
	assert.EqualValues(t, account.Balance, sum)
}

func TestApplyLoyaltyDeltaRejectsOverdraw(t *testing.T) {
	setupTest(t)
	db := database.GetDB()

	_, err := ApplyLoyaltyDelta(db, 2, 50, model.LoyaltyTypeEarn, "order reward")
	require.NoError(t, err)

	_, err = ApplyLoyaltyDelta(db, 2, -80, model.LoyaltyTypeRedeem, "discount")
	assert.Error(t, err)

	// The failed redemption must leave no trace: balance and log untouched
	var account model.LoyaltyAccount
	require.NoError(t, db.Where("user_id = ?", 2).First(&account).Error)
	assert.Equal(t, 50, account.Balance)

	var count int64
	db.Model(&model.LoyaltyTransaction{}).Where("user_id = ?", 2).Count(&count)
	assert.EqualValues(t, 1, count)
}
