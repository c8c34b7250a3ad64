package command

// decoders maps a stored type id to the function reconstructing its
// command. Adding a variant means adding its entry here; nothing else in
// the cache or uploader changes.
var decoders = map[string]func([]byte) (Command, error){
	TypeLikeTopic: func(b []byte) (Command, error) {
		base, err := decodeTopicPayload(b)
		if err != nil {
			return nil, err
		}
		return &LikeTopic{base}, nil
	},
	TypeUnlikeTopic: func(b []byte) (Command, error) {
		base, err := decodeTopicPayload(b)
		if err != nil {
			return nil, err
		}
		return &UnlikeTopic{base}, nil
	},
	TypePinTopic: func(b []byte) (Command, error) {
		base, err := decodeTopicPayload(b)
		if err != nil {
			return nil, err
		}
		return &PinTopic{base}, nil
	},
	TypeUnpinTopic: func(b []byte) (Command, error) {
		base, err := decodeTopicPayload(b)
		if err != nil {
			return nil, err
		}
		return &UnpinTopic{base}, nil
	},
	TypeCreateTopic: func(b []byte) (Command, error) {
		base, err := decodeTopicPayload(b)
		if err != nil {
			return nil, err
		}
		return &CreateTopic{base}, nil
	},
	TypeEditTopic: func(b []byte) (Command, error) {
		base, err := decodeTopicPayload(b)
		if err != nil {
			return nil, err
		}
		return &EditTopic{base}, nil
	},
	TypeRemoveTopic: func(b []byte) (Command, error) {
		base, err := decodeTopicPayload(b)
		if err != nil {
			return nil, err
		}
		return &RemoveTopic{base}, nil
	},
	TypePostComment: func(b []byte) (Command, error) {
		base, err := decodeCommentPayload(b)
		if err != nil {
			return nil, err
		}
		return &PostComment{base}, nil
	},
	TypeDeleteComment: func(b []byte) (Command, error) {
		base, err := decodeCommentPayload(b)
		if err != nil {
			return nil, err
		}
		return &DeleteComment{base}, nil
	},
	TypeLikeComment: func(b []byte) (Command, error) {
		base, err := decodeCommentPayload(b)
		if err != nil {
			return nil, err
		}
		return &LikeComment{base}, nil
	},
	TypeUnlikeComment: func(b []byte) (Command, error) {
		base, err := decodeCommentPayload(b)
		if err != nil {
			return nil, err
		}
		return &UnlikeComment{base}, nil
	},
	TypePostReply: func(b []byte) (Command, error) {
		base, err := decodeReplyPayload(b)
		if err != nil {
			return nil, err
		}
		return &PostReply{base}, nil
	},
	TypeDeleteReply: func(b []byte) (Command, error) {
		base, err := decodeReplyPayload(b)
		if err != nil {
			return nil, err
		}
		return &DeleteReply{base}, nil
	},
	TypeLikeReply: func(b []byte) (Command, error) {
		base, err := decodeReplyPayload(b)
		if err != nil {
			return nil, err
		}
		return &LikeReply{base}, nil
	},
	TypeUnlikeReply: func(b []byte) (Command, error) {
		base, err := decodeReplyPayload(b)
		if err != nil {
			return nil, err
		}
		return &UnlikeReply{base}, nil
	},
	TypeFollow: func(b []byte) (Command, error) {
		base, err := decodeUserPayload(b)
		if err != nil {
			return nil, err
		}
		return &Follow{base}, nil
	},
	TypeUnfollow: func(b []byte) (Command, error) {
		base, err := decodeUserPayload(b)
		if err != nil {
			return nil, err
		}
		return &Unfollow{base}, nil
	},
	TypeBlock: func(b []byte) (Command, error) {
		base, err := decodeUserPayload(b)
		if err != nil {
			return nil, err
		}
		return &Block{base}, nil
	},
	TypeUnblock: func(b []byte) (Command, error) {
		base, err := decodeUserPayload(b)
		if err != nil {
			return nil, err
		}
		return &Unblock{base}, nil
	},
	TypeAcceptPending: func(b []byte) (Command, error) {
		base, err := decodeUserPayload(b)
		if err != nil {
			return nil, err
		}
		return &AcceptPending{base}, nil
	},
	TypeRejectPending: func(b []byte) (Command, error) {
		base, err := decodeUserPayload(b)
		if err != nil {
			return nil, err
		}
		return &RejectPending{base}, nil
	},
	TypeCancelPending: func(b []byte) (Command, error) {
		base, err := decodeUserPayload(b)
		if err != nil {
			return nil, err
		}
		return &CancelPending{base}, nil
	},
}
