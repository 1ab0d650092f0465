package safety

import "strings"

// spamTriggers is the fixed list of phrases that commonly trip provider
// spam filters. Matching is case-insensitive substring; word boundaries are
// deliberately not enforced so that e.g. "discounts" still matches
// "discount".
var spamTriggers = []string{
	"100% free", "act now", "apply now", "as seen on", "bad credit", "bargain", "best price",
	"big bucks", "billing", "bonus", "bulk email", "buy direct", "call now", "cancel at any time",
	"cash", "casino", "cheap", "click here", "collect", "compare rates", "confidential",
	"congratulations", "credit card", "crypto", "deal", "debt", "discount", "double your",
	"earn", "exclusive deal", "expire", "fast cash", "financial freedom", "free access",
	"free gift", "free info", "free money", "free preview", "free trial", "full refund",
	"get it now", "get paid", "giveaway", "guarantee", "hello", "hidden assets", "home based",
	"income", "increase sales", "incredible deal", "info you requested", "investment",
	"junk", "limited time", "loans", "lose weight", "lowest price", "luxury", "make money",
	"marketing", "mass email", "medicine", "million", "miracle", "money back", "mortgage",
	"multi-level marketing", "name brand", "new customers only", "no catch", "no cost",
	"no credit check", "no fees", "no gimmick", "no hidden costs", "no investment",
	"no obligation", "no purchase necessary", "no questions asked", "no strings attached",
	"off shore", "offer", "online biz", "online degree", "opportunity", "order now",
	"passwords", "pharmacy", "please read", "potential earnings", "pre-approved", "prize",
	"promise", "pure profit", "quote", "rates", "refinance", "refund", "remove",
	"request", "risk-free", "satisfaction", "save big", "save money", "score",
	"search engine listings", "security", "sign up free", "social security", "spam",
	"special promotion", "stock alert", "stop", "subscribe", "success", "supplies",
	"take action", "terms", "the best", "this isn't spam", "time limited", "traffic",
	"trial", "undisclosed recipient", "urgent", "us dollars", "vacation", "valium",
	"viagra", "vicodin", "warranty", "we hate spam", "web traffic", "weight loss",
	"what are you waiting for", "while supplies last", "will not believe your eyes",
	"winner", "winning", "work from home", "xanax", "you are a winner", "your family",
}

// ContentResult is the outcome of a content safety scan.
type ContentResult struct {
	Safe     bool     `json:"safe"`
	Triggers []string `json:"triggers,omitempty"`
}

// ContentScanner scans rendered message content for spam trigger phrases.
type ContentScanner interface {
	Scan(subject, body string) ContentResult
}

// TriggerScanner is the default ContentScanner backed by the fixed phrase
// list above.
type TriggerScanner struct{}

// NewTriggerScanner returns the default spam-phrase scanner.
func NewTriggerScanner() *TriggerScanner { return &TriggerScanner{} }

// Scan checks subject and body against the trigger list.
func (TriggerScanner) Scan(subject, body string) ContentResult {
	content := strings.ToLower(subject + " " + body)

	var matched []string
	for _, trigger := range spamTriggers {
		if strings.Contains(content, trigger) {
			matched = append(matched, trigger)
		}
	}

	return ContentResult{Safe: len(matched) == 0, Triggers: matched}
}
