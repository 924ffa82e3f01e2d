package regional

import (
	"strconv"
	"strings"

	"github.com/reevit/reevit-go/lib/mytime"
	"github.com/reevit/reevit-go/lib/myuuid"
)

const DefaultReferencePrefix = "reevit"

type ReferenceGenerator struct {
	nower  mytime.Nower
	uuider myuuid.UUIDer
	prefix string
}

func NewReferenceGenerator(nower mytime.Nower, uuider myuuid.UUIDer) *ReferenceGenerator {
	return &ReferenceGenerator{
		nower:  nower,
		uuider: uuider,
		prefix: DefaultReferencePrefix,
	}
}

// Generate returns <prefix>_<unix millis in base 36>_<6 random chars>.
func (g *ReferenceGenerator) Generate(prefix string) string {
	if prefix == "" {
		prefix = DefaultReferencePrefix
	}

	timestamp := strconv.FormatInt(g.nower.Now().UnixMilli(), 36)
	random := strings.ReplaceAll(g.uuider.Create(), "-", "")
	if len(random) > 6 {
		random = random[:6]
	}

	return prefix + "_" + timestamp + "_" + random
}

func (g *ReferenceGenerator) Next() string {
	return g.Generate(g.prefix)
}
