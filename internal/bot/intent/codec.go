package intent

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"concierge-bot/internal/features/order/models"
	usermodels "concierge-bot/internal/features/user/models"
)

// MaxDataLen is Telegram's limit on callback data.
const MaxDataLen = 64

var ErrUnknown = errors.New("unknown callback data")

const sep = ":"

// Encode renders an intent as callback data.
func Encode(in Intent) string {
	switch v := in.(type) {
	case MainMenu:
		return "m"
	case About:
		return "ab"
	case BrowseCategories:
		return "c"
	case SelectCategory:
		return join("cat", u(v.CategoryID))
	case SelectItem:
		return join("it", u(v.CategoryID), strconv.Itoa(v.Index))
	case Confirm:
		return join("ok", u(v.CategoryID), strconv.Itoa(v.Index))
	case StartCustomRequest:
		return "cr"
	case MyOrders:
		return "my"
	case ListOrders:
		return join("ol", string(v.Group))
	case OrderDetail:
		return join("od", v.Code)
	case Reorder:
		return join("ro", v.Code)
	case AdminMenu:
		return "ag"
	case AdminGroup:
		return join("agi", string(v.Group))
	case AdminItem:
		return join("aip", ref(v.Ref))
	case AdminOrder:
		return join("ao", v.Code, ref(v.Ref))
	case StatusMenu:
		return join("sm", v.Code, ref(v.Ref))
	case SetStatus:
		return join("ss", v.Code, v.Status, ref(v.Ref))
	case UsersPage:
		return join("up", strconv.Itoa(v.Page))
	case UserDetail:
		return join("ud", strconv.FormatInt(v.UserID, 10), strconv.Itoa(v.Page))
	case SetRole:
		return join("sr", strconv.FormatInt(v.UserID, 10), v.Role, strconv.Itoa(v.Page))
	case Noop:
		return "x"
	}
	panic(fmt.Sprintf("intent: unhandled type %T", in))
}

// Decode parses callback data produced by Encode.
func Decode(data string) (Intent, error) {
	parts := strings.Split(data, sep)
	p := parser{args: parts[1:]}

	var in Intent
	switch parts[0] {
	case "m":
		in = MainMenu{}
	case "ab":
		in = About{}
	case "c":
		in = BrowseCategories{}
	case "cat":
		in = SelectCategory{CategoryID: p.id()}
	case "it":
		in = SelectItem{CategoryID: p.id(), Index: p.num()}
	case "ok":
		in = Confirm{CategoryID: p.id(), Index: p.num()}
	case "cr":
		in = StartCustomRequest{}
	case "my":
		in = MyOrders{}
	case "ol":
		in = ListOrders{Group: p.userGroup()}
	case "od":
		in = OrderDetail{Code: p.code()}
	case "ro":
		in = Reorder{Code: p.code()}
	case "ag":
		in = AdminMenu{}
	case "agi":
		in = AdminGroup{Group: p.adminGroup()}
	case "aip":
		in = AdminItem{Ref: p.ref()}
	case "ao":
		in = AdminOrder{Code: p.code(), Ref: p.ref()}
	case "sm":
		in = StatusMenu{Code: p.code(), Ref: p.ref()}
	case "ss":
		in = SetStatus{Code: p.code(), Status: p.status(), Ref: p.ref()}
	case "up":
		in = UsersPage{Page: p.num()}
	case "ud":
		in = UserDetail{UserID: p.id64(), Page: p.num()}
	case "sr":
		in = SetRole{UserID: p.id64(), Role: p.role(), Page: p.num()}
	case "x":
		in = Noop{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknown, data)
	}
	if p.err == nil && len(p.args) != 0 {
		p.err = errors.New("trailing fields")
	}
	if p.err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrUnknown, data, p.err)
	}
	return in, nil
}

func join(parts ...string) string {
	return strings.Join(parts, sep)
}

func u(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

// Группа может быть пустой, если администратор пришёл из уведомления
func ref(r AdminRef) string {
	return join(string(r.Group), u(r.ItemID), strconv.Itoa(r.Page))
}

type parser struct {
	args []string
	err  error
}

func (p *parser) next() string {
	if p.err != nil {
		return ""
	}
	if len(p.args) == 0 {
		p.err = errors.New("missing field")
		return ""
	}
	s := p.args[0]
	p.args = p.args[1:]
	return s
}

func (p *parser) num() int {
	s := p.next()
	if p.err != nil {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		p.err = fmt.Errorf("bad number %q", s)
	}
	return n
}

func (p *parser) id64() int64 {
	s := p.next()
	if p.err != nil {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		p.err = fmt.Errorf("bad id %q", s)
	}
	return n
}

func (p *parser) id() uint {
	s := p.next()
	if p.err != nil {
		return 0
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		p.err = fmt.Errorf("bad id %q", s)
	}
	return uint(n)
}

func (p *parser) code() string {
	s := p.next()
	if p.err == nil && s == "" {
		p.err = errors.New("empty tracking code")
	}
	return s
}

func (p *parser) status() string {
	s := p.next()
	if p.err == nil && !models.ValidStatus(s) {
		p.err = fmt.Errorf("bad status %q", s)
	}
	return s
}

func (p *parser) role() string {
	s := p.next()
	if p.err == nil && !usermodels.ValidRole(s) {
		p.err = fmt.Errorf("bad role %q", s)
	}
	return s
}

func (p *parser) userGroup() models.Group {
	g := models.Group(p.next())
	if _, ok := models.UserGroupStatuses(g); p.err == nil && !ok {
		p.err = fmt.Errorf("bad group %q", g)
	}
	return g
}

func (p *parser) adminGroup() models.Group {
	g := models.Group(p.next())
	if _, ok := models.AdminGroupStatuses(g); p.err == nil && !ok {
		p.err = fmt.Errorf("bad group %q", g)
	}
	return g
}

func (p *parser) ref() AdminRef {
	g := models.Group(p.next())
	if g != "" {
		if _, ok := models.AdminGroupStatuses(g); p.err == nil && !ok {
			p.err = fmt.Errorf("bad group %q", g)
		}
	}
	return AdminRef{Group: g, ItemID: p.id(), Page: p.num()}
}
