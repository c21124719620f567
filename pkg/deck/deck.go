package deck

import (
	"fmt"
	"math/rand"
	"sort"
	"time"
)

// Discarded is the owner assigned to cards in the discard pile
const Discarded = 65535

// holdingOwner temporarily holds a player's old hand while a replacement hand
// is dealt, so the new hand can never contain leftover cards.
const holdingOwner = Discarded - 1

// Face is the display metadata associated with a card
type Face struct {
	Image       string `json:"image"`
	Description string `json:"description"`
}

// CardBack is the face shown for a card the viewer may not see
var CardBack = Face{
	Image:       "gray_back.png",
	Description: "Back of a card",
}

// Deck represents a playing deck.
// Unlike a draw pile, every card stays in the deck for the lifetime of the
// session; dealing, discarding, and returning cards only reassign owners.
type Deck struct {
	cards      []*Card
	faces      map[Suit]map[int]Face
	seed       int64
	rng        *rand.Rand
	discardSeq int64
}

// New returns a new 52-card deck, unshuffled and fully owned by the deck
func New() *Deck {
	d := &Deck{
		faces: make(map[Suit]map[int]Face),
	}

	for _, suit := range []Suit{Clubs, Diamonds, Hearts, Spades} {
		byRank := make(map[int]Face)
		for rank := 2; rank <= Ace; rank++ {
			card := &Card{Rank: rank, Suit: suit}
			d.cards = append(d.cards, card)
			byRank[rank] = newFace(card)
		}

		d.faces[suit] = byRank
	}

	return d
}

func newFace(card *Card) Face {
	var letter string
	var name string
	switch card.Suit {
	case Clubs:
		letter, name = "C", "Clubs"
	case Diamonds:
		letter, name = "D", "Diamonds"
	case Hearts:
		letter, name = "H", "Hearts"
	case Spades:
		letter, name = "S", "Spades"
	}

	var rank string
	switch card.Rank {
	case Jack:
		rank = "Jack"
	case Queen:
		rank = "Queen"
	case King:
		rank = "King"
	case Ace:
		rank = "Ace"
	default:
		rank = fmt.Sprintf("%d", card.Rank)
	}

	return Face{
		Image:       fmt.Sprintf("%d%s.png", card.Rank, letter),
		Description: fmt.Sprintf("%s of %s", rank, name),
	}
}

// SetSeed will set the seed. Games seed new decks from crypto entropy;
// tests set a fixed seed for determinism.
func (d *Deck) SetSeed(seed int64) {
	d.seed = seed
	d.rng = rand.New(rand.NewSource(seed))
}

// Face returns the display metadata for the card
func (d *Deck) Face(card *Card) (Face, bool) {
	byRank, ok := d.faces[card.Suit]
	if !ok {
		return Face{}, false
	}

	face, ok := byRank[card.Rank]
	return face, ok
}

// Shuffle assigns every card a fresh random sort key, then orders the deck by
// owner and finally by the sort key. Undealt cards end up in a uniformly
// random order at the front of the collection.
func (d *Deck) Shuffle() {
	d.ShuffleCustom(func(a, b *Card) int {
		return a.owner - b.owner
	})
}

// ShuffleCustom shuffles the deck with a caller-supplied primary ordering.
// Cards compare by the primary ordering first and by their new random sort
// key second, so a derived game can group by suit or owner while still
// shuffling within each group.
func (d *Deck) ShuffleCustom(primary func(a, b *Card) int) {
	if d.rng == nil {
		d.SetSeed(time.Now().UnixNano())
	}

	for _, card := range d.cards {
		card.sortKey = d.rng.Int63()
	}

	sort.Slice(d.cards, func(i, j int) bool {
		if cmp := primary(d.cards[i], d.cards[j]); cmp != 0 {
			return cmp < 0
		}

		return d.cards[i].sortKey < d.cards[j].sortKey
	})
}

// Reset returns every card to the deck and shuffles.
// Must be called before a new round is dealt.
func (d *Deck) Reset() {
	for _, card := range d.cards {
		card.owner = 0
	}

	d.Shuffle()
}

// DealCardTo reassigns the first undealt card to the owner and returns it.
// Because the collection is shuffle-ordered, the first undealt card is
// effectively random. Returns nil when no undealt cards remain.
func (d *Deck) DealCardTo(owner int) *Card {
	for _, card := range d.cards {
		if card.owner == 0 {
			card.owner = owner
			return card
		}
	}

	return nil
}

// DealCardToBySuit reassigns the first undealt card of the suit to the owner.
// Returns nil when no undealt card of that suit remains.
func (d *Deck) DealCardToBySuit(owner int, suit Suit) *Card {
	for _, card := range d.cards {
		if card.owner == 0 && card.Suit == suit {
			card.owner = owner
			return card
		}
	}

	return nil
}

// DealNewHandToPlayer fully replaces the owner's hand with n fresh cards.
// Any cards currently held are parked with a holding owner while the new hand
// is dealt, then returned to the deck, so none of the previous cards can end
// up in the new hand.
func (d *Deck) DealNewHandToPlayer(owner, n int) Hand {
	if n < 0 {
		panic(fmt.Sprintf("cannot deal %d cards", n))
	}

	d.ReturnHandFromOwner(owner, holdingOwner)

	for i := 0; i < n; i++ {
		d.DealCardTo(owner)
	}

	d.ReturnHandFromOwner(holdingOwner, 0)
	return d.HandByOwner(owner)
}

// Discard moves the card to the discard pile and stamps it with a recency
// key, so the most recently discarded card can be recovered by Discards.
func (d *Deck) Discard(card *Card) {
	d.discardSeq++
	card.owner = Discarded
	card.sortKey = d.discardSeq
}

// BurnCard discards the first undealt card and returns it.
// Returns nil if there are no undealt cards.
func (d *Deck) BurnCard() *Card {
	for _, card := range d.cards {
		if card.owner == 0 {
			d.Discard(card)
			return card
		}
	}

	return nil
}

// Discards returns the discard pile, most recently discarded first
func (d *Deck) Discards() Hand {
	hand := d.HandByOwner(Discarded)
	sort.Slice(hand, func(i, j int) bool {
		return hand[i].sortKey > hand[j].sortKey
	})

	return hand
}

// HandByOwner returns all cards currently owned by the owner, in collection order
func (d *Deck) HandByOwner(owner int) Hand {
	hand := make(Hand, 0, 7)
	for _, card := range d.cards {
		if card.owner == owner {
			hand = append(hand, card)
		}
	}

	return hand
}

// ReturnHandFromOwner reassigns every card held by oldOwner to newOwner.
// Passing 0 as newOwner returns the hand to the deck.
func (d *Deck) ReturnHandFromOwner(oldOwner, newOwner int) {
	for _, card := range d.cards {
		if card.owner == oldOwner {
			card.owner = newOwner
		}
	}
}

// MatchingCard searches the owner's hand for a card with the same suit and
// rank as the one presented. Returns nil if the owner does not hold it.
func (d *Deck) MatchingCard(cardToMatch *Card, owner int) *Card {
	if cardToMatch == nil {
		return nil
	}

	for _, card := range d.cards {
		if card.owner == owner && card.Equal(cardToMatch) {
			return card
		}
	}

	return nil
}

// Undealt returns the number of cards still owned by the deck
func (d *Deck) Undealt() int {
	n := 0
	for _, card := range d.cards {
		if card.owner == 0 {
			n++
		}
	}

	return n
}

// Size returns the total number of cards in the deck, regardless of owner
func (d *Deck) Size() int {
	return len(d.cards)
}
