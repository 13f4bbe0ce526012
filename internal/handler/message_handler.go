/*
Package handler provides HTTP handler functions for the messaging API: the contact
roster, conversation history, and message sending.

Sending is the only path that touches the realtime core: after a message is
durably persisted, the dispatcher attempts one best-effort live push to the
recipient. Persistence failures surface to the sender; delivery failures never do.
*/
package handler

import (
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"dmchat/internal/app/message"
	"dmchat/internal/app/user"
	"dmchat/internal/pkg/errs"
	"dmchat/internal/pkg/logx"
	"dmchat/internal/pkg/req"
	"dmchat/internal/pkg/resp"
)

// maxTextRunes caps the text of a single message.
const maxTextRunes = 5000

// HandleListContacts returns every user except the caller, for the sidebar roster.
func HandleListContacts(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := requireUser(w, r, deps)
		if !ok {
			return
		}

		contacts, err := deps.Users.ListExcept(r.Context(), account.ID)
		if err != nil {
			logx.Error(err, "failed to list contacts", "user_id", account.ID.String())
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"users": contacts})
	}
}

// HandleGetConversation returns the full message history between the caller and
// the peer named in the URL, in append order.
func HandleGetConversation(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := requireUser(w, r, deps)
		if !ok {
			return
		}

		peerID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrRecipientInvalid))
			return
		}

		messages, err := deps.Messages.ListConversation(r.Context(), account.ID, peerID)
		if err != nil {
			logx.Error(err, "failed to list conversation",
				"user_id", account.ID.String(), "peer_id", peerID.String())
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"messages": messages})
	}
}

type SendMessageInput struct {
	Text string `json:"text,omitempty"`

	// Image is an optional data URL carrying the attached image.
	Image string `json:"image,omitempty"`
}

// HandleSendMessage persists a message to the recipient named in the URL and, on
// success, hands it to the dispatcher for a best-effort live push. The response
// carries the persisted record either way; it never waits on delivery.
func HandleSendMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := requireUser(w, r, deps)
		if !ok {
			return
		}

		recipientID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil || recipientID == account.ID {
			resp.RespondError(w, r, errs.NewError(errs.ErrRecipientInvalid))
			return
		}

		if _, err := deps.Users.GetByID(r.Context(), recipientID); err != nil {
			if errors.Is(err, user.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrRecipientNotFound))
				return
			}
			logx.Error(err, "failed to resolve recipient", "recipient_id", recipientID.String())
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		var input SendMessageInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if utf8.RuneCountInString(input.Text) > maxTextRunes {
			resp.RespondError(w, r, errs.NewError(errs.ErrMessageContentTooLong))
			return
		}

		var imageURL string
		if input.Image != "" {
			url, customErr := uploadImageDataURL(r, deps, account.ID.String(), input.Image)
			if customErr != nil {
				resp.RespondError(w, r, customErr)
				return
			}
			imageURL = url
		}

		msg, err := deps.Messages.Create(r.Context(), account.ID, recipientID, input.Text, imageURL)
		if err != nil {
			if errors.Is(err, message.ErrEmptyMessage) {
				resp.RespondError(w, r, errs.NewError(errs.ErrMessageEmpty))
				return
			}
			logx.Error(err, "failed to persist message",
				"sender_id", account.ID.String(), "recipient_id", recipientID.String())
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		// The write is confirmed; delivery from here on is fire-and-forget.
		deps.Dispatcher.Dispatch(msg)

		resp.RespondSuccess(w, r, map[string]any{"message": msg})
	}
}
