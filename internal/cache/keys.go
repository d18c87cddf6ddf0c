package cache

import (
	"time"

	id "peoplehub/pkg/domain"
	"peoplehub/pkg/email"
	pstrings "peoplehub/pkg/platform/strings"
)

const (
	// TTLGeneral applies to every cached read except identity lookups.
	TTLGeneral = 600 * time.Second
	// TTLIdentity applies to the account-by-email lookup used at login.
	TTLIdentity = 300 * time.Second
)

// Fixed keys.
const (
	AttendanceListKey      = "attendance:list"
	CompanyDocsKey         = "companyDocs"
	AllDocumentsKey        = "allDocuments"
	DashboardStatsKey      = "dashboard:stats"
	DashboardActivitiesKey = "dashboard:activities"
	DashboardEventsKey     = "dashboard:events"
	SettingsKey            = "settings:global"
)

// CompanyCategory is the document category whose writes also touch CompanyDocsKey.
const CompanyCategory = "company"

func UserKey(addr string) string { return "user:" + email.Normalize(addr) }

func EmployeeKey(accountID id.AccountID) string { return "employee:" + accountID.String() }

func ProfileKey(accountID id.AccountID) string { return "profile:" + accountID.String() }

func AttendanceKey(recordID id.AttendanceID) string { return "attendance:" + recordID.String() }

// AttendanceListMineKey is one account's own attendance list.
func AttendanceListMineKey(owner id.AccountID) string { return "attendance:list:" + owner.String() }

// CategoryDocsKey is the per-owner listing of one document category, e.g. "payslipDocs:<id>".
func CategoryDocsKey(category string, owner id.AccountID) string {
	return category + "Docs:" + owner.String()
}

type entityKind int

const (
	kindAccount entityKind = iota
	kindProfile
	kindAttendance
	kindDocument
	kindDashboardEvent
	kindSettings
)

// EntityRef names a mutated entity. Build one with the constructors below and
// hand it to Accessor.InvalidateEntity.
type EntityRef struct {
	kind     entityKind
	account  id.AccountID
	email    string
	record   id.AttendanceID
	category string
}

func AccountRef(accountID id.AccountID, addr string) EntityRef {
	return EntityRef{kind: kindAccount, account: accountID, email: addr}
}

func ProfileRef(owner id.AccountID) EntityRef {
	return EntityRef{kind: kindProfile, account: owner}
}

func AttendanceRef(recordID id.AttendanceID, owner id.AccountID) EntityRef {
	return EntityRef{kind: kindAttendance, record: recordID, account: owner}
}

func DocumentRef(category string, owner id.AccountID) EntityRef {
	return EntityRef{kind: kindDocument, category: category, account: owner}
}

func DashboardEventRef() EntityRef { return EntityRef{kind: kindDashboardEvent} }

func SettingsRef() EntityRef { return EntityRef{kind: kindSettings} }

// KeysFor maps entity refs to the cache keys their mutation makes stale.
// This is the only place that relationship is written down.
func KeysFor(refs ...EntityRef) []string {
	var keys []string
	for _, ref := range refs {
		switch ref.kind {
		case kindAccount:
			if ref.email != "" {
				keys = append(keys, UserKey(ref.email))
			}
			keys = append(keys,
				EmployeeKey(ref.account),
				ProfileKey(ref.account),
				DashboardStatsKey,
			)
		case kindProfile:
			keys = append(keys,
				ProfileKey(ref.account),
				EmployeeKey(ref.account),
				DashboardStatsKey,
			)
		case kindAttendance:
			keys = append(keys, AttendanceListKey)
			if !ref.record.IsNil() {
				keys = append(keys, AttendanceKey(ref.record))
			}
			if !ref.account.IsNil() {
				keys = append(keys, AttendanceListMineKey(ref.account))
			}
			keys = append(keys, DashboardStatsKey, DashboardActivitiesKey)
		case kindDocument:
			keys = append(keys, CategoryDocsKey(ref.category, ref.account), AllDocumentsKey)
			if ref.category == CompanyCategory {
				keys = append(keys, CompanyDocsKey)
			}
			keys = append(keys, DashboardActivitiesKey)
		case kindDashboardEvent:
			keys = append(keys, DashboardEventsKey)
		case kindSettings:
			// stats count attendance for the work date in the company timezone
			keys = append(keys, SettingsKey, DashboardStatsKey)
		}
	}
	return pstrings.DedupeAndTrim(keys)
}

// family is the metric/span label for a key: the part before the first colon.
func family(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == ':' {
			return key[:i]
		}
	}
	return key
}
