// Package portal is the single choke point between the school portal's UI
// surfaces and the remote authoritative store. It owns the HTTP transport,
// the cookie-based session lifecycle, key-casing translation at the wire
// boundary, and the uniform failure taxonomy every screen relies on.
package portal

// Role identifies which portal surface a session belongs to.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleParent  Role = "parent"
)

// Surfaces a gated page may redirect to. UX affordance only; the server
// enforces authorization independently.
const (
	SurfaceLogin   = "login.html"
	SurfaceAdmin   = "admin_dashboard.html"
	SurfaceTeacher = "teacher_dashboard.html"
	SurfaceParent  = "parent_dashboard.html"
)

// HomeSurface names the dashboard a role should land on.
func HomeSurface(role Role) string {
	switch role {
	case RoleAdmin:
		return SurfaceAdmin
	case RoleTeacher:
		return SurfaceTeacher
	case RoleParent:
		return SurfaceParent
	default:
		return SurfaceLogin
	}
}

// UserIdentity is the authenticated principal reported by the backend.
type UserIdentity struct {
	ID    string `json:"id"`
	Role  string `json:"role"`
	Name  string `json:"name"`
	Class string `json:"class"`
}

// Student is the authoritative pupil record. Credit is the wallet balance in
// currency-agnostic units; the locally mirrored copy in prefs is a display
// optimization only.
type Student struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Grade      string  `json:"grade"`
	Password   string  `json:"password"`
	Fee        int     `json:"fee"`
	Paid       int     `json:"paid"`
	Credit     float64 `json:"credit"`
	Attendance string  `json:"attendance"`
	Photo      string  `json:"photo"`
}

// Teacher is a staff record.
type Teacher struct {
	Name     string `json:"name"`
	Class    string `json:"class"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// CartItem is a purchasable line item. Carts are local-only until checkout.
type CartItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Type  string  `json:"type"`
}

// OrderStatus enumerates the order lifecycle.
type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderCompleted OrderStatus = "Completed"
)

// Order is a submitted purchase. The id is client-generated
// (timestamp + random fragment) and not guaranteed globally unique.
type Order struct {
	ID             string      `json:"id"`
	Date           string      `json:"date"`
	ParentName     string      `json:"parentName"`
	Phone          string      `json:"phone"`
	StudentDetails string      `json:"studentDetails"`
	Items          []CartItem  `json:"items"`
	Total          float64     `json:"total"`
	PaymentMethod  string      `json:"paymentMethod"`
	Status         OrderStatus `json:"status"`
}

// LunchItem is a cafeteria menu entry.
type LunchItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Image    string  `json:"image"`
}

// GalleryImage is a class photo with its targeting label.
type GalleryImage struct {
	Src         string `json:"src"`
	Caption     string `json:"caption"`
	TargetClass string `json:"targetClass"`
	Date        string `json:"date"`
}

// Notification is a broadcast or private message. TargetClass and
// TargetStudentID are mutually exclusive, selected by IsPrivate.
type Notification struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	Sender          string `json:"sender"`
	Title           string `json:"title"`
	Body            string `json:"body"`
	TargetClass     string `json:"targetClass"`
	TargetStudentID string `json:"targetStudentId"`
	IsPrivate       bool   `json:"isPrivate"`
}

// ScheduleSlot is one timetable cell.
type ScheduleSlot struct {
	Subject string `json:"sub"`
	Teacher string `json:"teach"`
}

// DaySlots maps a free-form time-of-day string to a slot. Time keys require
// normalization before comparison (see the timetable package).
type DaySlots map[string]ScheduleSlot

// ClassWeek maps day index "0".."4" (Sunday-Thursday) to that day's slots.
type ClassWeek map[string]DaySlots

// Schedule maps class label to its week.
type Schedule map[string]ClassWeek

// BusStop is one stop on a named route, ordered by time-of-day string.
type BusStop struct {
	Time     string `json:"time"`
	Location string `json:"loc"`
}

// BusData carries both routes.
type BusData struct {
	Morning []BusStop `json:"morning"`
	Evening []BusStop `json:"evening"`
}

// ShopProduct is one uniform-shop listing.
type ShopProduct struct {
	Price float64 `json:"price"`
	Desc  string  `json:"desc"`
	Img   string  `json:"img"`
}

// ShopData is the uniform shop configuration.
type ShopData struct {
	Summer ShopProduct `json:"summer"`
	Winter ShopProduct `json:"winter"`
}

// HomeworkItem is an assignment for a class.
type HomeworkItem struct {
	ID      string `json:"id"`
	Class   string `json:"class"`
	Subject string `json:"subject"`
	DueDate string `json:"dueDate"`
	Desc    string `json:"desc"`
}

// GradeSheet maps student id -> subject key -> score string. Scores are not
// guaranteed numeric; "-" and "" are valid "ungraded" sentinels.
type GradeSheet map[string]map[string]string

// AttendanceSheet maps student id -> status for one date.
type AttendanceSheet map[string]string

// DefaultTerm is the grade term used when none is specified.
const DefaultTerm = "First Semester"

// DefaultClasses is the roster fallback when the backend is unreachable.
func DefaultClasses() []string {
	return []string{"KG1 A", "KG1 B", "KG2 A", "KG2 B"}
}

// DefaultShopData is the shop fallback when the backend is unreachable.
func DefaultShopData() ShopData {
	return ShopData{
		Summer: ShopProduct{Price: 15, Desc: "Breathable cotton polo."},
		Winter: ShopProduct{Price: 25, Desc: "Warm wool blazer."},
	}
}

// FilterForStudent returns the notifications visible to one student:
// private messages addressed to exactly that student id, and class
// broadcasts for the student's class. A private message never leaks to
// classmates through the broadcast filter.
func FilterForStudent(all []Notification, studentID, class string) []Notification {
	out := make([]Notification, 0, len(all))
	for _, n := range all {
		if n.IsPrivate {
			if n.TargetStudentID == studentID {
				out = append(out, n)
			}
			continue
		}
		if n.TargetClass == class {
			out = append(out, n)
		}
	}
	return out
}

// FilterHomeworkForClass returns the assignments for one class label.
func FilterHomeworkForClass(all []HomeworkItem, class string) []HomeworkItem {
	out := make([]HomeworkItem, 0, len(all))
	for _, hw := range all {
		if hw.Class == class {
			out = append(out, hw)
		}
	}
	return out
}
