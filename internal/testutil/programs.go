package testutil

import (
	"fmt"
	"maps"
	"math/big"
	"slices"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var (
	fundMeDef = mustABI("FundMe", fundMeABI)
	raffleDef = mustABI("Raffle", raffleABI)
)

var (
	// SimpleStorage stores one favorite number and a name book
	SimpleStorage = newSpec("SimpleStorage", simpleStorageABI, newSimpleStorage)
	// MockV3Aggregator is a price feed returning a settable answer
	MockV3Aggregator = newSpec("MockV3Aggregator", mockV3AggregatorABI, newAggregator)
	// FundMe collects funds above a USD minimum and lets the owner withdraw them
	FundMe = newSpec("FundMe", fundMeABI, newFundMe)
	// Raffle lets players enter for an entrance fee
	Raffle = newSpec("Raffle", raffleABI, newRaffle)
)

// Programs returns every known program spec
func Programs() []*ProgramSpec {
	return []*ProgramSpec{SimpleStorage, MockV3Aggregator, FundMe, Raffle}
}

func mustABI(name, rawABI string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(rawABI))
	if err != nil {
		panic(fmt.Sprintf("%s abi: %v", name, err))
	}
	return parsed
}

func newSpec(name, rawABI string, ctor func(env *Env, args []any) (Program, error)) *ProgramSpec {
	parsed := mustABI(name, rawABI)
	// 0x6080 followed by the name keeps the prefixes distinct and non-empty
	code := append([]byte{0x60, 0x80, 0x60, 0x40}, []byte(name)...)
	code = append(code, 0x00)
	return &ProgramSpec{Name: name, ABI: parsed, RawABI: rawABI, Bytecode: code, New: ctor}
}

func errUnknown(m *abi.Method) error {
	return RevertWith("unsupported method " + m.Sig)
}

// SimpleStorage

type simpleStorage struct {
	favorite *big.Int
	book     map[string]*big.Int
}

func newSimpleStorage(*Env, []any) (Program, error) {
	return &simpleStorage{favorite: new(big.Int), book: make(map[string]*big.Int)}, nil
}

func (s *simpleStorage) Call(env *Env, m *abi.Method, args []any) ([]any, error) {
	switch m.Name {
	case "store":
		s.favorite = new(big.Int).Set(args[0].(*big.Int))
		return nil, nil
	case "retrieve":
		return []any{new(big.Int).Set(s.favorite)}, nil
	case "addPerson":
		s.book[args[0].(string)] = new(big.Int).Set(args[1].(*big.Int))
		return nil, nil
	case "nameToFavoriteNumber":
		if n, ok := s.book[args[0].(string)]; ok {
			return []any{new(big.Int).Set(n)}, nil
		}
		return []any{new(big.Int)}, nil
	}
	return nil, errUnknown(m)
}

func (s *simpleStorage) Clone() Program {
	return &simpleStorage{favorite: new(big.Int).Set(s.favorite), book: maps.Clone(s.book)}
}

// MockV3Aggregator

type aggregator struct {
	decimals uint8
	answer   *big.Int
	round    int64
	updated  uint64
}

func newAggregator(env *Env, args []any) (Program, error) {
	return &aggregator{
		decimals: args[0].(uint8),
		answer:   new(big.Int).Set(args[1].(*big.Int)),
		round:    1,
		updated:  env.Timestamp,
	}, nil
}

func (a *aggregator) Call(env *Env, m *abi.Method, args []any) ([]any, error) {
	switch m.Name {
	case "decimals":
		return []any{a.decimals}, nil
	case "latestAnswer":
		return []any{new(big.Int).Set(a.answer)}, nil
	case "latestRoundData":
		round := big.NewInt(a.round)
		ts := new(big.Int).SetUint64(a.updated)
		return []any{round, new(big.Int).Set(a.answer), ts, ts, round}, nil
	case "updateAnswer":
		a.answer = new(big.Int).Set(args[0].(*big.Int))
		a.round++
		a.updated = env.Timestamp
		return nil, nil
	}
	return nil, errUnknown(m)
}

func (a *aggregator) Clone() Program {
	out := *a
	out.answer = new(big.Int).Set(a.answer)
	return &out
}

// FundMe

// FundMeMinimumUSD is the minimum contribution, in USD with 18 decimals
var FundMeMinimumUSD = new(big.Int).Mul(big.NewInt(50), big.NewInt(1e18))

type fundMe struct {
	owner     common.Address
	priceFeed common.Address
	funders   []common.Address
	funded    map[common.Address]*big.Int
}

func newFundMe(env *Env, args []any) (Program, error) {
	return &fundMe{
		owner:     env.Caller,
		priceFeed: args[0].(common.Address),
		funded:    make(map[common.Address]*big.Int),
	}, nil
}

func (f *fundMe) Call(env *Env, m *abi.Method, args []any) ([]any, error) {
	switch m.Name {
	case "fund":
		return nil, f.fund(env)
	case "withdraw", "cheaperWithdraw":
		return nil, f.withdraw(env)
	case "getFunder":
		i := args[0].(*big.Int)
		if !i.IsUint64() || i.Uint64() >= uint64(len(f.funders)) {
			return nil, Panic(PanicOutOfBound)
		}
		return []any{f.funders[i.Uint64()]}, nil
	case "getAddressToAmountFunded":
		if amount, ok := f.funded[args[0].(common.Address)]; ok {
			return []any{new(big.Int).Set(amount)}, nil
		}
		return []any{new(big.Int)}, nil
	case "getOwner":
		return []any{f.owner}, nil
	case "getPriceFeed":
		return []any{f.priceFeed}, nil
	case "MINIMUM_USD":
		return []any{new(big.Int).Set(FundMeMinimumUSD)}, nil
	}
	return nil, errUnknown(m)
}

func (f *fundMe) Receive(env *Env) error {
	return f.fund(env)
}

func (f *fundMe) fund(env *Env) error {
	out, err := env.Call(f.priceFeed, "latestRoundData")
	if err != nil {
		return err
	}
	// answer has 8 decimals; scale to 18 before converting
	price := new(big.Int).Mul(out[1].(*big.Int), big.NewInt(1e10))
	usd := new(big.Int).Div(new(big.Int).Mul(price, env.Value), big.NewInt(1e18))
	if usd.Cmp(FundMeMinimumUSD) < 0 {
		return RevertWith("You need to spend more ETH!")
	}

	if _, ok := f.funded[env.Caller]; !ok {
		f.funded[env.Caller] = new(big.Int)
	}
	f.funders = append(f.funders, env.Caller)
	f.funded[env.Caller] = new(big.Int).Add(f.funded[env.Caller], env.Value)
	return nil
}

func (f *fundMe) withdraw(env *Env) error {
	if env.Caller != f.owner {
		return CustomError(fundMeDef.Errors["FundMe__NotOwner"])
	}
	for _, funder := range f.funders {
		f.funded[funder] = new(big.Int)
	}
	f.funders = nil
	return env.Transfer(f.owner, env.Balance(env.Self))
}

func (f *fundMe) Clone() Program {
	out := &fundMe{
		owner:     f.owner,
		priceFeed: f.priceFeed,
		funders:   slices.Clone(f.funders),
		funded:    make(map[common.Address]*big.Int, len(f.funded)),
	}
	for addr, amount := range f.funded {
		out.funded[addr] = new(big.Int).Set(amount)
	}
	return out
}

// Raffle

const (
	raffleOpen uint8 = iota
	raffleCalculating
)

type raffle struct {
	entranceFee *big.Int
	interval    *big.Int
	state       uint8
	players     []common.Address
	lastTime    uint64
	requestID   int64
}

func newRaffle(env *Env, args []any) (Program, error) {
	return &raffle{
		entranceFee: new(big.Int).Set(args[0].(*big.Int)),
		interval:    new(big.Int).Set(args[1].(*big.Int)),
		lastTime:    env.Timestamp,
	}, nil
}

func (r *raffle) Call(env *Env, m *abi.Method, args []any) ([]any, error) {
	switch m.Name {
	case "enterRaffle":
		if env.Value.Cmp(r.entranceFee) < 0 {
			return nil, CustomError(raffleDef.Errors["Raffle__SendMoreToEnterRaffle"])
		}
		if r.state != raffleOpen {
			return nil, CustomError(raffleDef.Errors["Raffle__RaffleNotOpen"])
		}
		r.players = append(r.players, env.Caller)
		return nil, env.Emit(raffleDef.Events["RaffleEnter"], env.Caller)
	case "checkUpkeep":
		return []any{r.upkeepNeeded(env), []byte{}}, nil
	case "performUpkeep":
		if !r.upkeepNeeded(env) {
			return nil, CustomError(raffleDef.Errors["Raffle__UpkeepNotNeeded"],
				env.Balance(env.Self), big.NewInt(int64(len(r.players))), big.NewInt(int64(r.state)))
		}
		r.state = raffleCalculating
		r.requestID++
		return nil, env.Emit(raffleDef.Events["RequestedRaffleWinner"], big.NewInt(r.requestID))
	case "getEntranceFee":
		return []any{new(big.Int).Set(r.entranceFee)}, nil
	case "getInterval":
		return []any{new(big.Int).Set(r.interval)}, nil
	case "getPlayer":
		i := args[0].(*big.Int)
		if !i.IsUint64() || i.Uint64() >= uint64(len(r.players)) {
			return nil, Panic(PanicOutOfBound)
		}
		return []any{r.players[i.Uint64()]}, nil
	case "getNumberOfPlayers":
		return []any{big.NewInt(int64(len(r.players)))}, nil
	case "getRaffleState":
		return []any{r.state}, nil
	case "getLastTimeStamp":
		return []any{new(big.Int).SetUint64(r.lastTime)}, nil
	}
	return nil, errUnknown(m)
}

func (r *raffle) upkeepNeeded(env *Env) bool {
	elapsed := new(big.Int).SetUint64(env.Timestamp - r.lastTime)
	return r.state == raffleOpen &&
		elapsed.Cmp(r.interval) > 0 &&
		len(r.players) > 0 &&
		env.Balance(env.Self).Sign() > 0
}

func (r *raffle) Clone() Program {
	out := *r
	out.entranceFee = new(big.Int).Set(r.entranceFee)
	out.interval = new(big.Int).Set(r.interval)
	out.players = slices.Clone(r.players)
	return &out
}
