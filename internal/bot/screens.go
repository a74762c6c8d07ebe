package bot

import (
	"fmt"
	"html"
	"strings"

	"concierge-bot/internal/bot/intent"
	"concierge-bot/internal/bot/view"
	"concierge-bot/internal/common/pagination"
	adminsvc "concierge-bot/internal/features/admin/service"
	catalogmodels "concierge-bot/internal/features/catalog/models"
	ordermodels "concierge-bot/internal/features/order/models"
	usermodels "concierge-bot/internal/features/user/models"
	workflowsvc "concierge-bot/internal/features/workflow/service"
)

const (
	backLabel     = "⬅️ Back"
	mainMenuLabel = "🏠 Main menu"
	timeLayout    = "2006-01-02 15:04"
)

var groupLabels = map[ordermodels.Group]string{
	ordermodels.GroupNew:      "🆕 New",
	ordermodels.GroupInReview: "🔎 In review",
	ordermodels.GroupDone:     "✅ Done",
	ordermodels.GroupActive:   "⏳ Active",
}

var statusLabels = map[string]string{
	ordermodels.StatusPending:    "🕓 pending",
	ordermodels.StatusReviewed:   "🔎 reviewed",
	ordermodels.StatusInProgress: "🚚 in progress",
	ordermodels.StatusDone:       "✅ done",
	ordermodels.StatusRejected:   "❌ rejected",
}

func esc(s string) string {
	return html.EscapeString(s)
}

func statusLabel(status string) string {
	if l, ok := statusLabels[status]; ok {
		return l
	}
	return status
}

func back(in intent.Intent) []view.Button {
	return view.Row(view.Action(backLabel, in))
}

func mainMenu(user *usermodels.User) view.View {
	v := view.View{Text: "<b>Welcome!</b>\nWe take care of your family while you are away. Choose an option below."}
	v = v.Append(
		view.Row(view.Action("🚀 Start a request", intent.BrowseCategories{})),
		view.Row(view.Action("📌 My orders", intent.MyOrders{})),
		view.Row(view.Action("🌿 About us", intent.About{})),
	)
	if user.IsAdmin() {
		v = v.Append(
			view.Row(view.Action("🗂 Manage orders", intent.AdminMenu{})),
			view.Row(view.Action("👥 Manage users", intent.UsersPage{})),
		)
	}
	return v
}

func aboutView(support string) view.View {
	v := view.View{Text: "<b>About us</b>\nA family-care concierge: health checkups, celebrations and everyday errands " +
		"for the people you love, arranged from afar."}
	if support != "" {
		v = v.Append(view.Row(view.Link("💬 Contact support", "https://t.me/"+strings.TrimPrefix(support, "@"))))
	}
	return v.Append(back(intent.MainMenu{}))
}

func categoriesView(categories []catalogmodels.Category, notice string) view.View {
	text := "<b>What can we do for you?</b>\nPick a category."
	if notice != "" {
		text = esc(notice) + "\n\n" + text
	}
	v := view.View{Text: text}
	for _, c := range categories {
		v = v.Append(view.Row(view.Action("⚜️ "+c.Title, intent.SelectCategory{CategoryID: c.ID})))
	}
	return v.Append(
		view.Row(view.Action("✍️ Something else", intent.StartCustomRequest{})),
		back(intent.MainMenu{}),
	)
}

func itemsView(cv *workflowsvc.CategoryView) view.View {
	v := view.View{Text: fmt.Sprintf("<b>%s</b>\nChoose a service.", esc(cv.Category.Title))}
	if len(cv.Items) == 0 {
		v.Text = fmt.Sprintf("<b>%s</b>\nNo services here yet.", esc(cv.Category.Title))
	}
	for i, it := range cv.Items {
		v = v.Append(view.Row(view.Action(it.Title, intent.SelectItem{CategoryID: cv.Category.ID, Index: i + 1})))
	}
	return v.Append(back(intent.BrowseCategories{}))
}

func selectionView(sel *workflowsvc.Selection) view.View {
	v := view.View{Text: fmt.Sprintf("<b>%s</b>\n%s\n\nConfirm to place the order.",
		esc(sel.Category.Title), esc(sel.ItemLabel()))}
	return v.Append(
		view.Row(view.Action("📝 Place order", intent.Confirm{CategoryID: sel.Category.ID, Index: sel.Index})),
		back(intent.SelectCategory{CategoryID: sel.Category.ID}),
	)
}

func confirmationView(c *workflowsvc.Confirmation) view.View {
	text := fmt.Sprintf("✅ Your request is registered.\nTracking code: <code>%s</code>", esc(c.Order.TrackingCode))
	if c.NeedContact {
		return view.View{
			Text:     text + "\n\nPlease share your phone number so we can reach you, or type it in.",
			Keyboard: view.KeyboardRequestContact,
		}
	}
	v := view.View{Text: text + "\n\nWe will contact you shortly."}
	return v.Append(
		view.Row(view.Action("📌 My orders", intent.MyOrders{})),
		view.Row(view.Action(mainMenuLabel, intent.MainMenu{})),
	)
}

func contactSavedView() view.View {
	v := view.View{Text: "🙏 Thank you! Our team will call you soon.", Keyboard: view.KeyboardRemove}
	return v.Append(view.Row(view.Action(mainMenuLabel, intent.MainMenu{})))
}

func invalidPhoneView() view.View {
	return view.View{
		Text:     "That does not look like a phone number. Please try again or use the button below.",
		Keyboard: view.KeyboardRequestContact,
	}
}

func customPromptView() view.View {
	v := view.View{Text: "✍️ Tell us what you need in one message. You can attach a photo or a voice note."}
	return v.Append(back(intent.BrowseCategories{}))
}

func joinView(joinURL string, retry intent.Intent) view.View {
	v := view.View{Text: "📢 Please join our channel first, then tap “Check again”."}
	if joinURL != "" {
		v = v.Append(view.Row(view.Link("📢 Join the channel", joinURL)))
	}
	return v.Append(
		view.Row(view.Action("🔔 Check again", retry)),
		back(intent.BrowseCategories{}),
	)
}

func myOrdersView() view.View {
	v := view.View{Text: "<b>My orders</b>\nWhich orders do you want to see?"}
	for _, g := range ordermodels.UserGroups {
		v = v.Append(view.Row(view.Action(groupLabels[g], intent.ListOrders{Group: g})))
	}
	return v.Append(back(intent.MainMenu{}))
}

func orderListView(group ordermodels.Group, orders []*ordermodels.Order) view.View {
	v := view.View{Text: fmt.Sprintf("<b>%s orders</b>", esc(groupLabels[group]))}
	if len(orders) == 0 {
		v.Text += "\nNothing here yet."
	}
	for _, o := range orders {
		v = v.Append(view.Row(view.Action(o.TrackingCode+" · "+o.ItemLabel, intent.OrderDetail{Code: o.TrackingCode})))
	}
	return v.Append(back(intent.MyOrders{}))
}

func orderText(o *ordermodels.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>Order</b> <code>%s</code>\n", esc(o.TrackingCode))
	fmt.Fprintf(&b, "Category: %s\n", esc(o.CategoryLabel))
	fmt.Fprintf(&b, "Service: %s\n", esc(o.ItemLabel))
	fmt.Fprintf(&b, "Status: %s\n", esc(statusLabel(o.Status)))
	fmt.Fprintf(&b, "Created: %s", o.CreatedAt.Format(timeLayout))
	return b.String()
}

func orderDetailView(o *ordermodels.Order) view.View {
	v := view.View{Text: orderText(o)}
	if o.IsFinished() {
		v = v.Append(view.Row(view.Action("🔁 Order again", intent.Reorder{Code: o.TrackingCode})))
	}
	return v.Append(back(intent.ListOrders{Group: groupOf(o)}))
}

func notFoundView(text string, backTo intent.Intent) view.View {
	v := view.View{Text: "🔍 " + esc(text)}
	return v.Append(back(backTo))
}

func errorView() view.View {
	v := view.View{Text: "⚠️ Something went wrong. Please try again in a moment."}
	return v.Append(view.Row(view.Action(mainMenuLabel, intent.MainMenu{})))
}

func nudgeView(user *usermodels.User) view.View {
	v := mainMenu(user)
	v.Text = "Please use the buttons below 👇"
	return v
}

func adminMenuView() view.View {
	v := view.View{Text: "<b>Orders</b>\nChoose a group."}
	for _, g := range ordermodels.AdminGroups {
		v = v.Append(view.Row(view.Action(groupLabels[g], intent.AdminGroup{Group: g})))
	}
	return v.Append(back(intent.MainMenu{}))
}

func adminGroupView(group ordermodels.Group, items []adminsvc.GroupItem) view.View {
	v := view.View{Text: fmt.Sprintf("<b>%s</b>\nChoose a service.", esc(groupLabels[group]))}
	buttons := make([]view.Button, 0, len(items))
	for _, it := range items {
		ref := intent.AdminRef{Group: group, ItemID: it.ItemID}
		buttons = append(buttons, view.Action(fmt.Sprintf("%s (%d)", it.Title, it.Count), intent.AdminItem{Ref: ref}))
	}
	v = v.Append(view.Grid(buttons, 2)...)
	return v.Append(back(intent.AdminMenu{}))
}

// pager строит строку «назад / N из M / вперёд»
func pager[T any](p pagination.Page[T], goTo func(page int) intent.Intent) []view.Button {
	if !p.HasPrev && !p.HasNext {
		return nil
	}
	pages := int64(p.Page + 1)
	if p.Size > 0 {
		pages = max(pages, (p.Total+int64(p.Size)-1)/int64(p.Size))
	}
	row := make([]view.Button, 0, 3)
	if p.HasPrev {
		row = append(row, view.Action("◀️", goTo(p.Page-1)))
	}
	row = append(row, view.Action(fmt.Sprintf("%d / %d", p.Page+1, pages), intent.Noop{}))
	if p.HasNext {
		row = append(row, view.Action("▶️", goTo(p.Page+1)))
	}
	return row
}

func adminOrdersView(p *adminsvc.OrdersPage, ref intent.AdminRef) view.View {
	v := view.View{Text: fmt.Sprintf("<b>%s</b> · %s\n%d order(s)", esc(groupLabels[p.Group]), esc(p.ItemTitle), p.Page.Total)}
	buttons := make([]view.Button, 0, len(p.Page.Items))
	for _, s := range p.Page.Items {
		buttons = append(buttons, view.Action(s.Label, intent.AdminOrder{Code: s.TrackingCode, Ref: ref}))
	}
	v = v.Append(view.Grid(buttons, 2)...)
	v = v.Append(pager(p.Page, func(page int) intent.Intent {
		r := ref
		r.Page = page
		return intent.AdminItem{Ref: r}
	}))
	return v.Append(back(intent.AdminGroup{Group: ref.Group}))
}

func adminOrderView(d *adminsvc.OrderDetail, ref intent.AdminRef) view.View {
	o := d.Order
	var b strings.Builder
	b.WriteString(orderText(o))
	fmt.Fprintf(&b, "\n\nCustomer: %s", esc(d.Customer.DisplayName(o.ContactName)))
	if o.ContactPhone != "" {
		fmt.Fprintf(&b, "\nPhone: %s", esc(o.ContactPhone))
	}

	v := view.View{Text: b.String()}
	v = v.Append(view.Row(view.Action("🔄 Change status", intent.StatusMenu{Code: o.TrackingCode, Ref: ref})))
	username := o.ContactUsername
	if d.Customer != nil && d.Customer.Username != "" {
		username = d.Customer.Username
	}
	if username != "" {
		v = v.Append(view.Row(view.Link("💬 Contact customer", "https://t.me/"+username)))
	}
	if ref.Group != "" {
		return v.Append(back(intent.AdminItem{Ref: ref}))
	}
	return v.Append(back(intent.AdminMenu{}))
}

func statusMenuView(code string, statuses []string, ref intent.AdminRef) view.View {
	v := view.View{Text: fmt.Sprintf("New status for <code>%s</code>:", esc(code))}
	buttons := make([]view.Button, 0, len(statuses))
	for _, s := range statuses {
		buttons = append(buttons, view.Action(statusLabel(s), intent.SetStatus{Code: code, Status: s, Ref: ref}))
	}
	v = v.Append(view.Grid(buttons, 2)...)
	return v.Append(back(intent.AdminOrder{Code: code, Ref: ref}))
}

func usersView(p *pagination.Page[usermodels.UserSummary]) view.View {
	v := view.View{Text: fmt.Sprintf("<b>Users</b>\n%d in total", p.Total)}
	buttons := make([]view.Button, 0, len(p.Items))
	for _, u := range p.Items {
		label := u.Label
		if u.Role == usermodels.RoleAdmin {
			label = "⭐️ " + label
		}
		buttons = append(buttons, view.Action(label, intent.UserDetail{UserID: u.ID, Page: p.Page}))
	}
	v = v.Append(view.Grid(buttons, 2)...)
	v = v.Append(pager(*p, func(page int) intent.Intent { return intent.UsersPage{Page: page} }))
	return v.Append(back(intent.MainMenu{}))
}

func userDetailView(u *usermodels.User, page int) view.View {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n", esc(u.DisplayName("unknown user")))
	fmt.Fprintf(&b, "Telegram ID: <code>%d</code>\n", u.TelegramID)
	if u.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", esc(u.Phone))
	}
	fmt.Fprintf(&b, "Role: %s\nJoined: %s", esc(u.Role), u.CreatedAt.Format(timeLayout))

	v := view.View{Text: b.String()}
	if u.IsAdmin() {
		v = v.Append(view.Row(view.Action("⬇️ Make regular", intent.SetRole{UserID: u.ID, Role: usermodels.RoleRegular, Page: page})))
	} else {
		v = v.Append(view.Row(view.Action("⭐️ Make admin", intent.SetRole{UserID: u.ID, Role: usermodels.RoleAdmin, Page: page})))
	}
	if u.Username != "" {
		v = v.Append(view.Row(view.Link("💬 Message", "https://t.me/"+u.Username)))
	}
	return v.Append(back(intent.UsersPage{Page: page}))
}
