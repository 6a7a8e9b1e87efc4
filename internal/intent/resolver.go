// Package intent maps free-text chat messages to inventory actions with
// keyword lists and a few regular expressions.
package intent

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/yourusername/resale-inventory-bot/internal/domain/entity"
)

// Action what the message asks for
type Action int

const (
	ActionNone Action = iota
	ActionCancel
	ActionDelete
	ActionReturn
	ActionSale
	ActionReview
	ActionQuery
	ActionPurchase
	ActionHelp
)

func (a Action) String() string {
	switch a {
	case ActionCancel:
		return "cancel"
	case ActionDelete:
		return "delete"
	case ActionReturn:
		return "return"
	case ActionSale:
		return "sale"
	case ActionReview:
		return "review"
	case ActionQuery:
		return "query"
	case ActionPurchase:
		return "purchase"
	case ActionHelp:
		return "help"
	default:
		return "none"
	}
}

// QueryKind which question a query asks
type QueryKind int

const (
	QueryNone QueryKind = iota
	QueryPending
	QueryExpiring
	QuerySummary
	QueryLookup
)

// Intent resolved message
type Intent struct {
	Action    Action
	Query     QueryKind
	OrderRef  string // full id, placeholder or numeric suffix
	Price     decimal.Decimal
	HasPrice  bool
	Method    entity.PaymentMethod
	HasMethod bool
}

// Keyword lists are written accent-folded and lower-case.
var (
	cancelKeywords   = []string{"cancela", "olvidalo", "dejalo"}
	deleteKeywords   = []string{"borra", "elimina", "quita"}
	returnKeywords   = []string{"devolvi", "devuelto", "devuelta", "devolucion", "reembolso", "reembols"}
	saleKeywords     = []string{"vendi", "vendido", "vendida", "venta", "se vendio"}
	reviewKeywords   = []string{"resena", "review", "opinion", "califica"}
	pendingKeywords  = []string{"pendiente", "lista", "inventario", "que tengo", "sin vender"}
	expiringKeywords = []string{"vencer", "vence", "plazo", "caduca"}
	summaryKeywords  = []string{"ganancia", "gane", "resumen", "beneficio", "cuanto llevo"}
	lookupKeywords   = []string{"busca", "cuanto", "estado", "info", "donde esta"}
	purchaseKeywords = []string{"compre", "nueva compra", "registrar compra"}
	helpKeywords     = []string{"ayuda", "comandos", "help", "que puedes"}
)

var (
	fullIDRe        = regexp.MustCompile(`\b\d{3}-\d{7}-\d{7}\b`)
	placeholderRe   = regexp.MustCompile(`(?i)\bsin-[0-9a-f]{8}\b`)
	numberRe        = regexp.MustCompile(`\d+(?:[.,]\d{1,2})?`)
	dollarBeforeRe  = regexp.MustCompile(`\$\s*(\d+(?:[.,]\d{1,2})?)`)
	dollarAfterRe   = regexp.MustCompile(`(\d+(?:[.,]\d{1,2})?)\s*(?:\$|usd\b|dolares\b|dls\b)`)
	markedPriceRe   = regexp.MustCompile(`\b(?:por|en|a)\s+\$?\s*(\d+(?:[.,]\d{1,2})?)\b`)
	decimalPriceRe  = regexp.MustCompile(`\b\d+[.,]\d{1,2}\b`)
	botMessageIDRe  = regexp.MustCompile(`(?i)ID:\s*([0-9]{3}-[0-9]{7}-[0-9]{7}|SIN-[0-9a-f]{8})`)
	fullOrderIDOnly = regexp.MustCompile(`^\d{3}-\d{7}-\d{7}$`)
)

// Fold lower-cases text and strips accents ("Vendí" -> "vendi").
func Fold(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		folded = text
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// Resolve classifies a message. Precedence: cancel, delete, return, sale,
// review, query, purchase, help.
func Resolve(text string) Intent {
	folded := Fold(text)
	in := Intent{}
	if folded == "" {
		return in
	}

	rest := folded
	if id := fullIDRe.FindString(rest); id != "" {
		in.OrderRef = id
		rest = strings.Replace(rest, id, " ", 1)
	} else if ph := placeholderRe.FindString(rest); ph != "" {
		in.OrderRef = "SIN-" + strings.ToLower(ph[4:])
		rest = strings.Replace(rest, ph, " ", 1)
	}

	priceStart, priceEnd := -1, -1
	if price, start, end, ok := findPrice(rest); ok {
		in.Price, in.HasPrice = price, true
		priceStart, priceEnd = start, end
	}

	if in.OrderRef == "" {
		in.OrderRef = findSuffix(rest, priceStart, priceEnd)
	}

	in.Method, in.HasMethod = entity.DetectPaymentMethod(folded)

	switch {
	case containsAny(folded, cancelKeywords):
		in.Action = ActionCancel
	case containsAny(folded, deleteKeywords):
		in.Action = ActionDelete
	case containsAny(folded, returnKeywords):
		in.Action = ActionReturn
	case containsAny(folded, saleKeywords):
		in.Action = ActionSale
	case containsAny(folded, reviewKeywords):
		in.Action = ActionReview
	case containsAny(folded, expiringKeywords):
		in.Action, in.Query = ActionQuery, QueryExpiring
	case containsAny(folded, summaryKeywords):
		in.Action, in.Query = ActionQuery, QuerySummary
	case containsAny(folded, pendingKeywords):
		in.Action, in.Query = ActionQuery, QueryPending
	case in.OrderRef != "" && (containsAny(folded, lookupKeywords) || onlyReference(rest, in)):
		in.Action, in.Query = ActionQuery, QueryLookup
	case containsAny(folded, purchaseKeywords):
		in.Action = ActionPurchase
	case containsAny(folded, helpKeywords):
		in.Action = ActionHelp
	}

	if in.Action != ActionSale {
		// price and method only matter for sales
		in.Price, in.HasPrice = decimal.Zero, false
		in.Method, in.HasMethod = entity.PaymentMethod{}, false
	}
	return in
}

// findPrice returns the first price marked by a currency sign or word,
// falling back to a bare decimal number.
func findPrice(text string) (decimal.Decimal, int, int, bool) {
	for _, re := range []*regexp.Regexp{dollarBeforeRe, dollarAfterRe, markedPriceRe} {
		if loc := re.FindStringSubmatchIndex(text); loc != nil {
			if v, err := entity.ParseUserPrice(text[loc[2]:loc[3]]); err == nil {
				return v, loc[2], loc[3], true
			}
		}
	}
	if loc := decimalPriceRe.FindStringIndex(text); loc != nil {
		if v, err := entity.ParseUserPrice(text[loc[0]:loc[1]]); err == nil {
			return v, loc[0], loc[1], true
		}
	}
	return decimal.Zero, -1, -1, false
}

// findSuffix returns the first whole 4-7 digit number that is not the price.
func findSuffix(text string, priceStart, priceEnd int) string {
	for _, loc := range numberRe.FindAllStringIndex(text, -1) {
		if loc[0] >= priceStart && loc[1] <= priceEnd && priceStart >= 0 {
			continue
		}
		token := text[loc[0]:loc[1]]
		if strings.ContainsAny(token, ".,") {
			continue
		}
		if loc[0] > 0 && (text[loc[0]-1] == '$' || text[loc[0]-1] == '-') {
			continue
		}
		if len(token) >= 4 && len(token) <= 7 {
			return token
		}
	}
	return ""
}

func onlyReference(rest string, in Intent) bool {
	if in.HasPrice {
		return false
	}
	return strings.Trim(strings.Replace(rest, in.OrderRef, "", 1), " #.,:¿?!") == ""
}

// containsAny matches keywords at the start of a word, so "venta" does not
// fire inside "inventario".
func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		from := 0
		for {
			i := strings.Index(text[from:], kw)
			if i < 0 {
				break
			}
			i += from
			if i == 0 || !isLetter(text[i-1]) {
				return true
			}
			from = i + 1
		}
	}
	return false
}

func isLetter(b byte) bool {
	return b >= 'a' && b <= 'z'
}

// reviewFillers words that may surround the keyword and order in a review request
var reviewFillers = map[string]bool{
	"escribe": true, "escribeme": true, "genera": true, "generame": true,
	"haz": true, "hazme": true, "redacta": true, "dame": true,
	"una": true, "un": true, "la": true, "el": true, "del": true, "de": true,
	"al": true, "para": true, "pedido": true, "producto": true, "orden": true,
}

// ReviewNotes drops the request words and the order reference from a review
// request, keeping what the buyer said about the product.
func ReviewNotes(text string) string {
	fields := strings.Fields(text)
	var sawKeyword, sawRef bool
	i := 0
scan:
	for ; i < len(fields); i++ {
		tok := strings.Trim(Fold(fields[i]), "#.,:;!?¿¡-")
		switch {
		case tok == "":
		case containsAny(tok, reviewKeywords):
			sawKeyword = true
		case isOrderToken(tok):
			sawRef = true
		case reviewFillers[tok] && !(sawKeyword && sawRef):
		default:
			break scan
		}
	}
	return strings.Trim(strings.Join(fields[i:], " "), " ,.:;-")
}

func isOrderToken(tok string) bool {
	if fullOrderIDOnly.MatchString(tok) || placeholderRe.MatchString(tok) {
		return true
	}
	if len(tok) < 4 || len(tok) > 7 {
		return false
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ExtractOrderID finds "ID: <order>" inside a bot message.
func ExtractOrderID(text string) (string, bool) {
	m := botMessageIDRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	id := m[1]
	if strings.HasPrefix(strings.ToUpper(id), "SIN-") {
		id = "SIN-" + strings.ToLower(id[4:])
	}
	return id, true
}

// IsFullOrderID reports whether ref is a complete Amazon order number.
func IsFullOrderID(ref string) bool {
	return fullOrderIDOnly.MatchString(strings.TrimSpace(ref))
}

// Confirm reads a yes/no answer; ok is false when the text is neither.
func Confirm(text string) (yes bool, ok bool) {
	switch Fold(text) {
	case "s", "si", "y", "yes", "ok", "dale":
		return true, true
	case "n", "no":
		return false, true
	}
	return false, false
}
