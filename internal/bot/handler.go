package bot

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"concierge-bot/internal/bot/intent"
	"concierge-bot/internal/bot/session"
	"concierge-bot/internal/bot/view"
	apperrors "concierge-bot/internal/common/errors"
	"concierge-bot/internal/common/logger"
	adminsvc "concierge-bot/internal/features/admin/service"
	ordermodels "concierge-bot/internal/features/order/models"
	usermodels "concierge-bot/internal/features/user/models"
	usersvc "concierge-bot/internal/features/user/service"
	workflowsvc "concierge-bot/internal/features/workflow/service"
)

var trackingCodeRe = regexp.MustCompile(`^\d{6}$`)

// Message входящее сообщение чата в виде, не зависящем от транспорта.
type Message struct {
	Command string
	Text    string
	// ContactPhone заполнен, если пользователь поделился контактом.
	ContactPhone  string
	ContactUserID int64
	Media         bool
	Caption       string
}

// Handler превращает действия пользователя в ответы бота.
type Handler struct {
	users    usersvc.UserService
	workflow *workflowsvc.Service
	admin    *adminsvc.Service
	sessions session.Store
	support  string
	joinURL  string
}

type Option func(*Handler)

func WithSupport(username string) Option {
	return func(h *Handler) { h.support = username }
}

// WithJoinURL задаёт ссылку на обязательный канал
func WithJoinURL(url string) Option {
	return func(h *Handler) { h.joinURL = url }
}

func NewHandler(users usersvc.UserService, workflow *workflowsvc.Service, admin *adminsvc.Service, sessions session.Store, opts ...Option) *Handler {
	h := &Handler{users: users, workflow: workflow, admin: admin, sessions: sessions}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleIntent обрабатывает нажатие кнопки. nil означает, что показывать нечего.
func (h *Handler) HandleIntent(ctx context.Context, p usermodels.Profile, in intent.Intent) *view.View {
	var out *view.View
	h.withSession(ctx, p, func(user *usermodels.User, sess *session.Session) bool {
		out = h.route(ctx, p, user, sess, in)
		return true
	}, func() { v := errorView(); out = &v })
	return out
}

// HandleMessage обрабатывает команду, текст, контакт или медиа.
func (h *Handler) HandleMessage(ctx context.Context, p usermodels.Profile, msg Message) view.View {
	out := errorView()
	h.withSession(ctx, p, func(user *usermodels.User, sess *session.Session) bool {
		out = h.message(ctx, p, user, sess, msg)
		// /cancel сбрасывает диалог целиком, сессию не храним
		return msg.Command != "cancel"
	}, func() {})
	return out
}

// withSession загружает сессию, выполняет fn и сохраняет результат.
// Если fn вернула false, сессия удаляется из хранилища.
func (h *Handler) withSession(ctx context.Context, p usermodels.Profile, fn func(*usermodels.User, *session.Session) bool, onErr func()) {
	user, err := h.users.Resolve(ctx, p, false)
	if err != nil {
		logger.Error().Err(err).Int64("telegram_id", p.TelegramID).Msg("Failed to resolve user")
		onErr()
		return
	}
	sess, err := h.sessions.Load(ctx, p.TelegramID)
	if err != nil {
		logger.Warn().Err(err).Int64("telegram_id", p.TelegramID).Msg("Failed to load session, starting fresh")
		sess = session.New(p.TelegramID)
	}

	if !fn(user, sess) {
		if err := h.sessions.Delete(ctx, p.TelegramID); err != nil {
			logger.Warn().Err(err).Int64("telegram_id", p.TelegramID).Msg("Failed to delete session")
		}
		return
	}

	if err := h.sessions.Save(ctx, sess); err != nil {
		logger.Warn().Err(err).Int64("telegram_id", p.TelegramID).Msg("Failed to save session")
	}
}

func ptr(v view.View) *view.View {
	return &v
}

func (h *Handler) route(ctx context.Context, p usermodels.Profile, user *usermodels.User, sess *session.Session, in intent.Intent) *view.View {
	switch in := in.(type) {
	case intent.MainMenu:
		sess.Reset()
		return ptr(mainMenu(user))
	case intent.About:
		return ptr(aboutView(h.support))
	case intent.BrowseCategories:
		return ptr(h.categories(ctx, user, sess, ""))
	case intent.SelectCategory:
		cv, err := h.workflow.SelectCategory(ctx, sess, in.CategoryID)
		if err != nil {
			return ptr(h.catalogFail(ctx, user, sess, err))
		}
		return ptr(itemsView(cv))
	case intent.SelectItem:
		sel, err := h.workflow.SelectItem(ctx, sess, in.CategoryID, in.Index)
		if err != nil {
			return ptr(h.catalogFail(ctx, user, sess, err))
		}
		return ptr(selectionView(sel))
	case intent.Confirm:
		c, err := h.workflow.Confirm(ctx, sess, p, in.CategoryID, in.Index)
		if err != nil {
			if errors.Is(err, workflowsvc.ErrMembershipRequired) {
				return ptr(joinView(h.joinURL, in))
			}
			return ptr(h.catalogFail(ctx, user, sess, err))
		}
		return ptr(confirmationView(c))
	case intent.StartCustomRequest:
		h.workflow.StartCustomRequest(sess)
		return ptr(customPromptView())

	case intent.MyOrders:
		return ptr(myOrdersView())
	case intent.ListOrders:
		orders, err := h.workflow.ListOrders(ctx, p.TelegramID, in.Group)
		if err != nil {
			return ptr(h.fail(user, err, intent.MyOrders{}))
		}
		return ptr(orderListView(in.Group, orders))
	case intent.OrderDetail:
		o, err := h.workflow.LookupOrder(ctx, p.TelegramID, in.Code)
		if err != nil {
			return ptr(h.fail(user, err, intent.MyOrders{}))
		}
		return ptr(orderDetailView(o))
	case intent.Reorder:
		c, err := h.workflow.Reorder(ctx, sess, p, in.Code)
		if err != nil {
			if errors.Is(err, workflowsvc.ErrMembershipRequired) {
				return ptr(joinView(h.joinURL, in))
			}
			return ptr(h.fail(user, err, intent.MyOrders{}))
		}
		return ptr(confirmationView(c))

	case intent.AdminMenu:
		if !user.IsAdmin() {
			return ptr(mainMenu(user))
		}
		return ptr(adminMenuView())
	case intent.AdminGroup:
		items, err := h.admin.GroupItems(ctx, user, in.Group)
		if err != nil {
			return ptr(h.fail(user, err, intent.AdminMenu{}))
		}
		return ptr(adminGroupView(in.Group, items))
	case intent.AdminItem:
		page, err := h.admin.OrdersPage(ctx, user, in.Ref.Group, in.Ref.ItemID, in.Ref.Page)
		if err != nil {
			return ptr(h.fail(user, err, intent.AdminGroup{Group: in.Ref.Group}))
		}
		return ptr(adminOrdersView(page, in.Ref))
	case intent.AdminOrder:
		return ptr(h.adminOrder(ctx, user, in.Code, in.Ref, ""))
	case intent.StatusMenu:
		if !user.IsAdmin() {
			return ptr(mainMenu(user))
		}
		return ptr(statusMenuView(in.Code, h.admin.StatusOptions(), in.Ref))
	case intent.SetStatus:
		ok, err := h.admin.SetOrderStatus(ctx, user, in.Code, in.Status)
		if err != nil {
			return ptr(h.fail(user, err, intent.AdminOrder{Code: in.Code, Ref: in.Ref}))
		}
		if !ok {
			return ptr(notFoundView("Order not found.", intent.AdminMenu{}))
		}
		return ptr(h.adminOrder(ctx, user, in.Code, in.Ref, "Status updated: "+in.Status))

	case intent.UsersPage:
		page, err := h.admin.UsersPage(ctx, user, in.Page)
		if err != nil {
			return ptr(h.fail(user, err, intent.MainMenu{}))
		}
		return ptr(usersView(page))
	case intent.UserDetail:
		return ptr(h.userDetail(ctx, user, in.UserID, in.Page, ""))
	case intent.SetRole:
		ok, err := h.admin.SetUserRole(ctx, user, in.UserID, in.Role)
		if err != nil {
			return ptr(h.fail(user, err, intent.UsersPage{Page: in.Page}))
		}
		if !ok {
			return ptr(notFoundView("User not found.", intent.UsersPage{Page: in.Page}))
		}
		return ptr(h.userDetail(ctx, user, in.UserID, in.Page, "Role updated: "+in.Role))

	case intent.Noop:
		return nil
	}

	sess.Reset()
	return ptr(mainMenu(user))
}

func (h *Handler) message(ctx context.Context, p usermodels.Profile, user *usermodels.User, sess *session.Session, msg Message) view.View {
	switch msg.Command {
	case "":
	case "start", "menu", "cancel":
		sess.Reset()
		return mainMenu(user)
	case "admin":
		if v := h.route(ctx, p, user, sess, intent.AdminMenu{}); v != nil {
			return *v
		}
		return mainMenu(user)
	default:
		return nudgeView(user)
	}

	if sess.Expects() {
		return h.awaited(ctx, p, user, sess, msg)
	}

	if code := strings.TrimSpace(msg.Text); trackingCodeRe.MatchString(code) {
		o, err := h.workflow.LookupOrder(ctx, p.TelegramID, code)
		if err != nil {
			return h.fail(user, err, intent.MyOrders{})
		}
		return orderDetailView(o)
	}
	return nudgeView(user)
}

// awaited обрабатывает ответ на вопрос, который бот задал последним.
func (h *Handler) awaited(ctx context.Context, p usermodels.Profile, user *usermodels.User, sess *session.Session, msg Message) view.View {
	switch sess.State {
	case session.StateAwaitingContact:
		phone := msg.Text
		if msg.ContactPhone != "" {
			if msg.ContactUserID != 0 && msg.ContactUserID != p.TelegramID {
				return invalidPhoneView()
			}
			phone = msg.ContactPhone
		}
		if phone == "" {
			return invalidPhoneView()
		}
		if _, err := h.workflow.SubmitContact(ctx, sess, p, phone); err != nil {
			if apperrors.IsValidation(err) {
				return invalidPhoneView()
			}
			return h.fail(user, err, intent.MainMenu{})
		}
		return contactSavedView()

	case session.StateAwaitingCustomRequest:
		var content *string
		switch {
		case msg.Text != "":
			content = &msg.Text
		case msg.Caption != "":
			content = &msg.Caption
		case !msg.Media:
			return customPromptView()
		}
		c, err := h.workflow.SubmitCustomRequest(ctx, sess, p, content)
		if err != nil {
			if errors.Is(err, workflowsvc.ErrMembershipRequired) {
				return joinView(h.joinURL, intent.StartCustomRequest{})
			}
			if apperrors.IsValidation(err) {
				return customPromptView()
			}
			return h.fail(user, err, intent.MainMenu{})
		}
		return confirmationView(c)
	}
	return nudgeView(user)
}

func (h *Handler) categories(ctx context.Context, user *usermodels.User, sess *session.Session, notice string) view.View {
	categories, err := h.workflow.BrowseCategories(ctx, sess)
	if err != nil {
		return h.fail(user, err, intent.MainMenu{})
	}
	return categoriesView(categories, notice)
}

// catalogFail возвращает к списку категорий, если выбранное исчезло из каталога.
func (h *Handler) catalogFail(ctx context.Context, user *usermodels.User, sess *session.Session, err error) view.View {
	if apperrors.IsNotFound(err) {
		return h.categories(ctx, user, sess, "That option is no longer available.")
	}
	return h.fail(user, err, intent.BrowseCategories{})
}

func (h *Handler) adminOrder(ctx context.Context, user *usermodels.User, code string, ref intent.AdminRef, toast string) view.View {
	d, err := h.admin.OrderDetail(ctx, user, code)
	if err != nil {
		return h.fail(user, err, intent.AdminMenu{})
	}
	v := adminOrderView(d, ref)
	v.Toast = toast
	return v
}

func (h *Handler) userDetail(ctx context.Context, user *usermodels.User, userID int64, page int, toast string) view.View {
	u, err := h.admin.UserDetail(ctx, user, userID)
	if err != nil {
		return h.fail(user, err, intent.UsersPage{Page: page})
	}
	v := userDetailView(u, page)
	v.Toast = toast
	return v
}

// fail отображает ошибку: отказ в доступе молча ведёт в главное меню.
func (h *Handler) fail(user *usermodels.User, err error, backTo intent.Intent) view.View {
	switch {
	case apperrors.IsForbidden(err):
		return mainMenu(user)
	case apperrors.IsNotFound(err):
		return notFoundView(notFoundText(err), backTo)
	case apperrors.IsValidation(err):
		return notFoundView("That request is not valid.", backTo)
	}
	logger.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to handle update")
	return errorView()
}

func notFoundText(err error) string {
	appErr, _ := apperrors.AsAppError(err)
	switch appErr.Code {
	case apperrors.ErrCodeOrderNotFound:
		return "Order not found."
	case apperrors.ErrCodeUserNotFound:
		return "User not found."
	}
	return "Not found."
}

// groupOf возвращает пользовательскую группу заказа
func groupOf(o *ordermodels.Order) ordermodels.Group {
	if o.IsFinished() {
		return ordermodels.GroupDone
	}
	return ordermodels.GroupActive
}
