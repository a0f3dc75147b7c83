package negotiation

import "errors"

var (
	// ErrOfferFieldsRequired blocks an offer without a price and a reason.
	ErrOfferFieldsRequired = errors.New("offer price and reason are required")

	// ErrThreadClosed rejects negotiation on a terminal engagement.
	ErrThreadClosed = errors.New("thread is closed for negotiation")

	// ErrNotOffer is returned when the referenced message is not an offer.
	ErrNotOffer = errors.New("message is not an offer")

	// ErrOwnOffer rejects the offer author responding to their own offer.
	ErrOwnOffer = errors.New("cannot respond to own offer")

	// ErrOfferResolved rejects responding to an already resolved offer.
	ErrOfferResolved = errors.New("offer already resolved")

	// ErrNotArmed is returned when ConfirmAcceptance runs without a prior
	// accept response for that offer.
	ErrNotArmed = errors.New("offer acceptance was not armed")

	// ErrNotFoundInThread is returned when the message id does not exist in
	// the thread log.
	ErrNotFoundInThread = errors.New("message not found in thread")
)
