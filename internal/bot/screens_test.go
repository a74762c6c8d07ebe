package bot

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concierge-bot/internal/bot/intent"
	"concierge-bot/internal/common/pagination"
	adminsvc "concierge-bot/internal/features/admin/service"
	ordermodels "concierge-bot/internal/features/order/models"
	usermodels "concierge-bot/internal/features/user/models"
)

func TestAdminOrdersViewTwoPerRow(t *testing.T) {
	summaries := make([]ordermodels.OrderSummary, 4)
	for i := range summaries {
		summaries[i] = ordermodels.OrderSummary{TrackingCode: fmt.Sprintf("00000%d", i+1), Label: fmt.Sprintf("Customer %d", i+1)}
	}
	ref := intent.AdminRef{Group: ordermodels.GroupActive, ItemID: 3, Page: 1}
	v := adminOrdersView(&adminsvc.OrdersPage{
		Group:     ordermodels.GroupActive,
		ItemTitle: "Wound Care",
		Page:      pagination.New(summaries, 1, 4, 12),
	}, ref)

	// две строки заказов, затем пагинация и «назад»
	require.Len(t, v.Rows, 4)
	assert.Len(t, v.Rows[0], 2)
	assert.Len(t, v.Rows[1], 2)
	assert.Equal(t, intent.AdminOrder{Code: "000003", Ref: ref}, v.Rows[1][0].Intent)
	assert.Equal(t, "2 / 3", v.Rows[2][1].Label)
	assert.Equal(t, backLabel, v.Rows[3][0].Label)
}

func TestUsersViewTwoPerRow(t *testing.T) {
	summaries := []usermodels.UserSummary{
		{ID: 1, Label: "Sara A", Role: usermodels.RoleAdmin},
		{ID: 2, Label: "Reza"},
		{ID: 3, Label: "Mina"},
	}
	v := usersView(&pagination.Page[usermodels.UserSummary]{Items: summaries, Total: 3})

	require.Len(t, v.Rows, 3)
	assert.Equal(t, []string{"⭐️ Sara A", "Reza"}, []string{v.Rows[0][0].Label, v.Rows[0][1].Label})
	require.Len(t, v.Rows[1], 1)
	assert.Equal(t, intent.UserDetail{UserID: 3}, v.Rows[1][0].Intent)
	assert.Equal(t, backLabel, v.Rows[2][0].Label)
}

func TestJoinViewWithoutLink(t *testing.T) {
	retry := intent.Confirm{CategoryID: 1, Index: 2}

	v := joinView("", retry)
	for _, row := range v.Rows {
		for _, b := range row {
			assert.Empty(t, b.URL)
		}
	}
	assert.Equal(t, retry, v.Rows[0][0].Intent)

	v = joinView("https://t.me/+invite", retry)
	assert.Equal(t, "https://t.me/+invite", v.Rows[0][0].URL)
}
